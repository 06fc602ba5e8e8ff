package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/hnminh/amlich-api/internal/lunar"
)

// Offline sweep over the supported year range: converts every day both
// directions and checks the month tables, reporting any violation. Useful
// after touching the ephemeris or the leap rule.

// YearResult holds the sweep outcome for one solar-year context.
type YearResult struct {
	Year       int      `json:"year"`
	Months     int      `json:"months"`
	LeapMonth  int      `json:"leap_month,omitempty"`
	DaysSwept  int      `json:"days_swept"`
	Failures   int      `json:"failures"`
	FailedDays []string `json:"failed_days,omitempty"`
}

func main() {
	startYear := flag.Int("start", lunar.MinYear+1, "Start year")
	endYear := flag.Int("end", lunar.MaxYear, "End year (inclusive)")
	verbose := flag.Bool("v", false, "Verbose output (show each year)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	if *startYear <= lunar.MinYear || *endYear > lunar.MaxYear || *startYear > *endYear {
		fmt.Printf("Error: year range must be within %d..%d\n", lunar.MinYear+1, lunar.MaxYear)
		os.Exit(1)
	}

	fmt.Println("================================================================")
	fmt.Println("Amlich Engine - Full Range Verification")
	fmt.Println("================================================================")
	fmt.Printf("Date Range: %d-01-01 to %d-12-31\n", *startYear, *endYear)
	fmt.Println()

	engine := lunar.NewEngine(lunar.TimeZoneVietnam)

	results := sweepYears(engine, *startYear, *endYear, *verbose)
	failures := printSummary(results)

	if *outputFile != "" {
		if err := writeJSON(*outputFile, results); err != nil {
			fmt.Printf("Error writing %s: %v\n", *outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Results written to %s\n", *outputFile)
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func sweepYears(engine *lunar.Engine, startYear, endYear int, verbose bool) []YearResult {
	var results []YearResult

	for year := startYear; year <= endYear; year++ {
		res := YearResult{Year: year}

		months, err := engine.Intervals(year)
		if err != nil {
			res.Failures++
			res.FailedDays = append(res.FailedDays, fmt.Sprintf("intervals: %v", err))
			results = append(results, res)
			continue
		}
		res.Months = len(months)
		for _, m := range months {
			if m.Leap {
				res.LeapMonth = m.Month
			}
		}

		// Round-trip every civil day of the solar year.
		start := lunar.SolarToJDN(lunar.SolarDate{Year: year, Month: 1, Day: 1})
		end := lunar.SolarToJDN(lunar.SolarDate{Year: year, Month: 12, Day: 31})
		for jdn := start; jdn <= end; jdn++ {
			d := lunar.JDNToSolar(jdn)
			res.DaysSwept++

			ld, err := engine.ToLunar(d)
			if err != nil {
				res.Failures++
				res.FailedDays = append(res.FailedDays, fmt.Sprintf("%s: %v", d, err))
				continue
			}

			back, err := engine.ToSolar(ld)
			if err != nil || back != d {
				res.Failures++
				res.FailedDays = append(res.FailedDays, fmt.Sprintf("%s: round trip via %s gave %s (%v)", d, ld, back, err))
			}
		}

		if verbose {
			leap := "-"
			if res.LeapMonth > 0 {
				leap = fmt.Sprintf("nhuận %d", res.LeapMonth)
			}
			fmt.Printf("  %d: %d months (%s), %d days, %d failures\n",
				res.Year, res.Months, leap, res.DaysSwept, res.Failures)
		}

		results = append(results, res)
	}

	return results
}

func printSummary(results []YearResult) int {
	totalDays, totalFailures, leapYears := 0, 0, 0
	var failedYears []int

	for _, r := range results {
		totalDays += r.DaysSwept
		totalFailures += r.Failures
		if r.LeapMonth > 0 {
			leapYears++
		}
		if r.Failures > 0 {
			failedYears = append(failedYears, r.Year)
		}
	}
	sort.Ints(failedYears)

	fmt.Println()
	fmt.Println("================================================================")
	fmt.Println("Summary")
	fmt.Println("================================================================")
	fmt.Printf("  Years swept:   %d\n", len(results))
	fmt.Printf("  Days swept:    %d\n", totalDays)
	fmt.Printf("  Leap contexts: %d\n", leapYears)
	fmt.Printf("  Failures:      %d\n", totalFailures)

	if totalFailures > 0 {
		fmt.Printf("  Failed years:  %v\n", failedYears)
		for _, r := range results {
			for i, f := range r.FailedDays {
				if i >= 5 {
					fmt.Printf("    %d: ... and %d more\n", r.Year, len(r.FailedDays)-5)
					break
				}
				fmt.Printf("    %d: %s\n", r.Year, f)
			}
		}
	} else {
		fmt.Println()
		fmt.Println("All conversions check out. ✓")
	}

	return totalFailures
}

func writeJSON(path string, results []YearResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
