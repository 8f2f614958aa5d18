package patterns

import (
	"fmt"
	"time"
)

// DetectOvertrading fires when the trailing-hour or trailing-day event count
// reaches its limit. The count covers already-recorded events, so the limit
// itself is the first blocked attempt: with a limit of 3, the first three
// records succeed and the fourth check is denied.
func DetectOvertrading(in Inputs, lim Limits) *Detection {
	hour := in.Log.CountSince(in.Now.Add(-time.Hour))
	if lim.HourlyTradeLimit > 0 && hour >= lim.HourlyTradeLimit {
		return &Detection{
			Tag:      Overtrading,
			Reason:   fmt.Sprintf("%d trades in the last hour (limit %d)", hour, lim.HourlyTradeLimit),
			Cooldown: lim.OvertradeCooldown,
			Severe:   true,
		}
	}
	day := in.Log.CountSince(in.Now.Add(-24 * time.Hour))
	if lim.DailyTradeLimit > 0 && day >= lim.DailyTradeLimit {
		return &Detection{
			Tag:      Overtrading,
			Reason:   fmt.Sprintf("%d trades in the last 24h (limit %d)", day, lim.DailyTradeLimit),
			Cooldown: lim.OvertradeCooldown,
			Severe:   true,
		}
	}
	return nil
}

// DetectRevengeTrading fires when the most recent trade was a loss and less
// than the revenge window has elapsed since it.
func DetectRevengeTrading(in Inputs, lim Limits) *Detection {
	last, ok := in.Log.LastTrade()
	if !ok || last.PnL == nil || *last.PnL >= 0 {
		return nil
	}
	elapsed := in.Now.Sub(last.At)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= lim.RevengeWindow {
		return nil
	}
	return &Detection{
		Tag: RevengeTrading,
		Reason: fmt.Sprintf("last trade lost %.2f only %d min ago; wait at least %.0f min after a loss",
			-*last.PnL, int(elapsed.Minutes()), lim.RevengeWindow.Minutes()),
		Cooldown: lim.RevengeCooldown,
		Severe:   true,
	}
}

// DetectLossStreak fires on a trailing loss run at or above the streak limit.
func DetectLossStreak(in Inputs, lim Limits) *Detection {
	st := in.Log.Streak()
	if lim.StreakLength <= 0 || st.Type != "loss" || st.Length < lim.StreakLength {
		return nil
	}
	return &Detection{
		Tag:      LossStreak,
		Reason:   fmt.Sprintf("%d consecutive losses; step away before the next trade", st.Length),
		Cooldown: lim.LossStreakCooldown,
		Severe:   true,
	}
}

// DetectWinStreak is advisory only: a long win run signals euphoria risk but
// does not block by itself.
func DetectWinStreak(in Inputs, lim Limits) *Detection {
	st := in.Log.Streak()
	if lim.StreakLength <= 0 || st.Type != "win" || st.Length < lim.StreakLength {
		return nil
	}
	return &Detection{
		Tag:    WinStreak,
		Reason: fmt.Sprintf("%d consecutive wins; overconfidence precedes givebacks", st.Length),
	}
}

// DetectWeekend hard-blocks on Saturday and Sunday in the reference
// timezone. No cooldown is stored; the block holds only while the condition
// does.
func DetectWeekend(in Inputs, _ Limits) *Detection {
	wd := in.Now.In(in.Loc).Weekday()
	if wd != time.Saturday && wd != time.Sunday {
		return nil
	}
	return &Detection{
		Tag:    WeekendTrading,
		Reason: fmt.Sprintf("markets are closed: it is %s; weekend trading is off-plan", wd),
		Severe: true,
	}
}

// DetectLateNightTrading hard-blocks between 20:00 and 06:00 local time.
// Exactly 06:00 is allowed.
func DetectLateNightTrading(in Inputs, _ Limits) *Detection {
	h := in.Now.In(in.Loc).Hour()
	if h < 20 && h >= 6 {
		return nil
	}
	return &Detection{
		Tag:    LateNightTrading,
		Reason: fmt.Sprintf("local hour is %02d; trading outside 06:00-20:00 is off-plan", h),
		Severe: true,
	}
}
