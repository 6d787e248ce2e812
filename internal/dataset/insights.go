package dataset

import (
	"sort"
	"time"

	"github.com/alexanderramin/roaster/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GlobalAverages holds published daily-minute averages per app used to put
// a user's numbers in context.
var GlobalAverages = map[string]float64{
	"Instagram": 195,
	"TikTok":    168,
	"YouTube":   142,
	"WhatsApp":  85,
	"Facebook":  125,
	"Twitter":   95,
	"Snapchat":  110,
	"Reddit":    135,
	"Netflix":   180,
	"Spotify":   75,
}

// TopAppsLimit caps Insights.TopApps.
const TopAppsLimit = 10

// AppStats aggregates sessions for one app.
type AppStats struct {
	App          string   `json:"app"`
	Sessions     int      `json:"sessions"`
	TotalMinutes float64  `json:"total_minutes"`
	MeanMinutes  float64  `json:"mean_minutes"`
	StdMinutes   float64  `json:"std_minutes"`
	Share        float64  `json:"share"`
	GlobalAvg    *float64 `json:"global_avg,omitempty"`
	// VsGlobal is MeanMinutes minus GlobalAvg, when known.
	VsGlobal *float64 `json:"vs_global,omitempty"`
}

// DayStats aggregates usage for one weekday.
type DayStats struct {
	Day         string  `json:"day"`
	Sessions    int     `json:"sessions"`
	MeanMinutes float64 `json:"mean_minutes"`
}

// Insights is a descriptive summary of a feature table.
type Insights struct {
	TotalRows            int                          `json:"total_rows"`
	UniqueUsers          int                          `json:"unique_users"`
	From                 time.Time                    `json:"from"`
	To                   time.Time                    `json:"to"`
	TotalMinutes         float64                      `json:"total_minutes"`
	MeanMinutes          float64                      `json:"mean_minutes"`
	Apps                 []AppStats                   `json:"apps"`
	TopApps              []string                     `json:"top_apps"`
	IntensityCounts      map[string]int               `json:"intensity_counts"`
	UsageCategoryCounts  map[domain.UsageCategory]int `json:"usage_category_counts"`
	Days                 []DayStats                   `json:"days"`
	MostActiveDay        string                       `json:"most_active_day"`
	WeekendMeanMinutes   float64                      `json:"weekend_mean_minutes"`
	WeekdayMeanMinutes   float64                      `json:"weekday_mean_minutes"`
	SyntheticWeekdayRows int                          `json:"synthetic_weekday_rows,omitempty"`
}

// Summarize computes Insights. It returns the zero value for no records.
func Summarize(records []domain.FeatureRecord) Insights {
	in := Insights{
		TotalRows:           len(records),
		IntensityCounts:     map[string]int{},
		UsageCategoryCounts: map[domain.UsageCategory]int{},
	}
	if len(records) == 0 {
		return in
	}

	all := make([]float64, 0, len(records))
	byApp := map[string][]float64{}
	byDay := map[string][]float64{}
	var weekend, weekday []float64
	users := map[string]bool{}

	for _, r := range records {
		all = append(all, r.UsageMinutes)
		byApp[r.AppName] = append(byApp[r.AppName], r.UsageMinutes)
		byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], r.UsageMinutes)
		if r.IsWeekend {
			weekend = append(weekend, r.UsageMinutes)
		} else {
			weekday = append(weekday, r.UsageMinutes)
		}
		users[r.UserID] = true
		in.IntensityCounts[string(r.RoastIntensity)]++
		in.UsageCategoryCounts[r.UsageCategory]++
		if r.Synthetic {
			in.SyntheticWeekdayRows++
		}
		if r.HasDate() {
			if in.From.IsZero() || r.Date.Before(in.From) {
				in.From = r.Date
			}
			if r.Date.After(in.To) {
				in.To = r.Date
			}
		}
	}

	in.UniqueUsers = len(users)
	in.TotalMinutes = floats.Sum(all)
	in.MeanMinutes = stat.Mean(all, nil)
	if len(weekend) > 0 {
		in.WeekendMeanMinutes = stat.Mean(weekend, nil)
	}
	if len(weekday) > 0 {
		in.WeekdayMeanMinutes = stat.Mean(weekday, nil)
	}

	for app, mins := range byApp {
		mean, std := stat.PopMeanStdDev(mins, nil)
		s := AppStats{
			App:          app,
			Sessions:     len(mins),
			TotalMinutes: floats.Sum(mins),
			MeanMinutes:  mean,
			StdMinutes:   std,
		}
		if in.TotalMinutes > 0 {
			s.Share = s.TotalMinutes / in.TotalMinutes
		}
		if avg, ok := GlobalAverages[app]; ok {
			diff := mean - avg
			s.GlobalAvg = &avg
			s.VsGlobal = &diff
		}
		in.Apps = append(in.Apps, s)
	}
	sort.Slice(in.Apps, func(i, j int) bool {
		if in.Apps[i].TotalMinutes != in.Apps[j].TotalMinutes {
			return in.Apps[i].TotalMinutes > in.Apps[j].TotalMinutes
		}
		return in.Apps[i].App < in.Apps[j].App
	})
	for i, a := range in.Apps {
		if i == TopAppsLimit {
			break
		}
		in.TopApps = append(in.TopApps, a.App)
	}

	bestMean := -1.0
	for d := time.Sunday; d <= time.Saturday; d++ {
		mins, ok := byDay[d.String()]
		if !ok {
			continue
		}
		ds := DayStats{Day: d.String(), Sessions: len(mins), MeanMinutes: stat.Mean(mins, nil)}
		in.Days = append(in.Days, ds)
		if ds.MeanMinutes > bestMean {
			bestMean = ds.MeanMinutes
			in.MostActiveDay = ds.Day
		}
	}
	return in
}
