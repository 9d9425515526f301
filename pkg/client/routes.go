package client

import "net/url"

// Backend routes, kept in one place so clients and tests agree on paths.
const (
	routeCustomerLogin       = "/auth/customer/login"
	routeCustomerLoginVerify = "/auth/customer/login/verify"
	routeCustomerRegister    = "/auth/customer/register"
	routeCustomerMe          = "/auth/customer/me"
	routeCustomerTickets     = "/customers/me/tickets"
	routeAdminLogin          = "/auth/admin/login"
	routeAdminLoginVerify    = "/auth/admin/login/verify"
	routeAdminMe             = "/auth/admin/me"
	routeOffers              = "/offers"
	routePaymentsCheckout    = "/payments/checkout"
	routePaymentsStatus      = "/payments/status"
	routeTicketsScan         = "/tickets/scan"
	routeTicketsValidate     = "/tickets/validate"
)

func offerPath(id string) string {
	return routeOffers + "/" + url.PathEscape(id)
}

func paymentStatusPath(sessionID string) string {
	return routePaymentsStatus + "/" + url.PathEscape(sessionID)
}
