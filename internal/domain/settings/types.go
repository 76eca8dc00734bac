package settings

import (
	"context"
	"fmt"
	"time"
)

// Selection is the user-chosen provider configuration the engines read on
// every resolution call.
type Selection struct {
	HijriProvider  string `json:"hijriProvider"`
	PrayerProvider string `json:"prayerProvider"`
	Region         string `json:"region"`
	Zone           string `json:"zone"`

	// Manual Hijri anchor: the Hijri date the operator confirmed for
	// ManualAnchorDate (Gregorian, YYYY-MM-DD).
	ManualHijriDay   int    `json:"manualHijriDay"`
	ManualHijriMonth int    `json:"manualHijriMonth"`
	ManualHijriYear  int    `json:"manualHijriYear"`
	ManualAnchorDate string `json:"manualAnchorDate"`

	// Manual prayer schedule, used when PrayerProvider is MANUAL.
	ManualAzanTimes map[string]string `json:"manualAzanTimes"`
	IqamahGaps      map[string]int    `json:"iqamahGaps"`
}

// Store provides reactive access to the current selection. Update fires
// every subscribed listener after the new selection is visible.
type Store interface {
	Current(ctx context.Context) (Selection, error)
	Update(ctx context.Context, sel Selection) (Selection, error)
	Subscribe(fn func())
}

var hijriProviders = map[string]struct{}{
	"ACJU_DIRECT":      {},
	"AL_ADHAN_API":     {},
	"MOSQUE_CLOCK_API": {},
	"MANUAL":           {},
}

var prayerProviders = map[string]struct{}{
	"AL_ADHAN_API":     {},
	"MOSQUE_CLOCK_API": {},
	"MANUAL":           {},
}

// Validate rejects selections the engines cannot act on.
func Validate(sel Selection) error {
	if _, ok := hijriProviders[sel.HijriProvider]; !ok {
		return fmt.Errorf("unknown hijri provider %q", sel.HijriProvider)
	}
	if _, ok := prayerProviders[sel.PrayerProvider]; !ok {
		return fmt.Errorf("unknown prayer provider %q", sel.PrayerProvider)
	}
	if sel.HijriProvider == "AL_ADHAN_API" && sel.Region == "" {
		return fmt.Errorf("region required for AL_ADHAN_API")
	}
	if sel.PrayerProvider == "AL_ADHAN_API" && sel.Region == "" {
		return fmt.Errorf("region required for AL_ADHAN_API")
	}
	if sel.HijriProvider == "MOSQUE_CLOCK_API" && sel.Zone == "" {
		return fmt.Errorf("zone required for MOSQUE_CLOCK_API")
	}
	if sel.PrayerProvider == "MOSQUE_CLOCK_API" && sel.Zone == "" {
		return fmt.Errorf("zone required for MOSQUE_CLOCK_API")
	}
	if sel.ManualHijriMonth < 1 || sel.ManualHijriMonth > 12 {
		return fmt.Errorf("manual hijri month must be 1-12")
	}
	if sel.ManualHijriDay < 1 || sel.ManualHijriDay > 30 {
		return fmt.Errorf("manual hijri day must be 1-30")
	}
	if sel.ManualHijriYear <= 0 {
		return fmt.Errorf("manual hijri year must be positive")
	}
	if _, err := time.Parse("2006-01-02", sel.ManualAnchorDate); err != nil {
		return fmt.Errorf("manual anchor date must be YYYY-MM-DD: %w", err)
	}
	return nil
}
