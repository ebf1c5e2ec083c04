// Package expiry provides policies that decide when cached entries are past
// their deadline.
//
// The sliding-cache sweep consults a Policy for every entry it visits, so a
// policy can tighten or relax eligibility for removal without changing the
// cache itself. The default Deadline policy implements the plain time-based
// check; Never pins entries, and Jittered spreads removal of a cohort of
// entries with the same deadline across multiple sweeps.
package expiry
