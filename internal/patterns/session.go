package patterns

import (
	"fmt"
)

// DetectLateNightSession is the session-profile night rule: compromised
// between 23:00 and 05:00 local time, with a cooldown so the block outlasts
// a quick clock tick past the window.
func DetectLateNightSession(in Inputs, lim Limits) *Detection {
	h := in.Now.In(in.Loc).Hour()
	if h < 23 && h >= 5 {
		return nil
	}
	return &Detection{
		Tag:      LateNight,
		Reason:   fmt.Sprintf("research at %02d:00 local; decisions made between 23:00 and 05:00 do not hold up", h),
		Cooldown: lim.NightCooldown,
		Severe:   true,
	}
}

// DetectSessionFatigue cautions once the open session passes the fatigue
// threshold.
func DetectSessionFatigue(in Inputs, lim Limits) *Detection {
	if !in.Session.Open() || lim.FatigueAfter <= 0 {
		return nil
	}
	d := in.Session.Duration(in.Now)
	if d <= lim.FatigueAfter {
		return nil
	}
	return &Detection{
		Tag:    SessionFatigue,
		Reason: fmt.Sprintf("session open for %.0f min; attention degrades past %.0f", d.Minutes(), lim.FatigueAfter.Minutes()),
	}
}

// DetectExtendedSession escalates past the extended threshold: the session
// should end and a cooldown applies.
func DetectExtendedSession(in Inputs, lim Limits) *Detection {
	if !in.Session.Open() || lim.ExtendedAfter <= 0 {
		return nil
	}
	d := in.Session.Duration(in.Now)
	if d <= lim.ExtendedAfter {
		return nil
	}
	return &Detection{
		Tag:      ExtendedSession,
		Reason:   fmt.Sprintf("session open for %.0f min, past the %.0f min hard limit; take a break", d.Minutes(), lim.ExtendedAfter.Minutes()),
		Cooldown: lim.NightCooldown,
		Severe:   true,
	}
}

// DetectRapidQueries cautions on a burst of queries in the trailing window.
func DetectRapidQueries(in Inputs, lim Limits) *Detection {
	if lim.RapidQueryCount <= 0 || lim.RapidQueryWindow <= 0 {
		return nil
	}
	n := in.Log.CountSince(in.Now.Add(-lim.RapidQueryWindow))
	if n < lim.RapidQueryCount {
		return nil
	}
	return &Detection{
		Tag:    RapidQueries,
		Reason: fmt.Sprintf("%d queries in %.0f min; churning through data is not analysis", n, lim.RapidQueryWindow.Minutes()),
	}
}

// DetectSessionOverload cautions when too many sessions were started today.
func DetectSessionOverload(in Inputs, lim Limits) *Detection {
	if lim.MaxSessionsPerDay <= 0 {
		return nil
	}
	n := in.Session.StartedToday(in.Now, in.Loc)
	if n < lim.MaxSessionsPerDay {
		return nil
	}
	return &Detection{
		Tag:    SessionOverload,
		Reason: fmt.Sprintf("%d sessions started today; compulsive checking detected", n),
	}
}
