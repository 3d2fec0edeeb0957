package model

// Dashboard identifies which dashboard view a session resolves to.
type Dashboard string

const (
	DashboardStudent   Dashboard = "student"
	DashboardReviewer  Dashboard = "reviewer"
	DashboardCommittee Dashboard = "committee"
	DashboardAdmin     Dashboard = "admin"
	DashboardGeneric   Dashboard = "generic"
)

type dashKey struct {
	Type   AccountType
	Status Status
}

// dashboards is the full routing table over (accountType, status).  Admin is
// deliberately not status-gated; any pair missing from the table falls
// through to the generic placeholder, which covers Pending/Denied accounts
// and unrecognized types alike.
var dashboards = map[dashKey]Dashboard{
	{AccountStudent, StatusApproved}:   DashboardStudent,
	{AccountReviewer, StatusApproved}:  DashboardReviewer,
	{AccountCommittee, StatusApproved}: DashboardCommittee,
	{AccountAdmin, StatusPending}:      DashboardAdmin,
	{AccountAdmin, StatusApproved}:     DashboardAdmin,
	{AccountAdmin, StatusDenied}:       DashboardAdmin,
}

// DashboardFor selects the dashboard for an authenticated session snapshot.
// It is a pure function of the cached (type, status) pair.
func DashboardFor(t AccountType, s Status) Dashboard {
	if d, ok := dashboards[dashKey{t, s}]; ok {
		return d
	}
	return DashboardGeneric
}
