// Command amlich prints the Vietnamese lunar almanac for a day on the
// terminal. With no arguments it shows today; -date picks another day,
// -lunar converts the other direction.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hnminh/amlich-api/internal/lunar"
)

func main() {
	dateStr := flag.String("date", "", "Solar date to look up (YYYY-MM-DD, default today)")
	lunarStr := flag.String("lunar", "", "Lunar date to convert to solar (DD/MM/YYYY)")
	leap := flag.Bool("leap", false, "Treat -lunar as a leap month")
	tz := flag.Float64("tz", lunar.TimeZoneVietnam, "Civil-day timezone offset in hours")
	flag.Parse()

	engine := lunar.NewEngine(*tz)

	if *lunarStr != "" {
		if err := printFromLunar(engine, *lunarStr, *leap); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	day := engine.Today(time.Now())
	if *dateStr != "" {
		var err error
		day, err = lunar.ParseSolarDate(*dateStr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	}

	if err := printAlmanac(engine, day); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printFromLunar(engine *lunar.Engine, s string, leap bool) error {
	var d, m, y int
	if _, err := fmt.Sscanf(s, "%d/%d/%d", &d, &m, &y); err != nil {
		return fmt.Errorf("parse lunar date %q (want DD/MM/YYYY): %w", s, err)
	}

	solar, err := engine.ToSolar(lunar.LunarDate{Day: d, Month: m, Year: y, Leap: leap})
	if err != nil {
		return err
	}
	return printAlmanac(engine, solar)
}

func printAlmanac(engine *lunar.Engine, day lunar.SolarDate) error {
	a, err := engine.Almanac(day)
	if err != nil {
		return err
	}

	leapNote := ""
	if a.Lunar.Leap {
		leapNote = " (nhuận)"
	}

	fmt.Printf("%s, %s\n", a.Weekday, a.Solar)
	fmt.Printf("Âm lịch: ngày %d tháng %d%s năm %s\n", a.Lunar.Day, a.Lunar.Month, leapNote, a.YearLabel)
	fmt.Printf("Tháng:   %s\n", a.MonthLabel)
	fmt.Printf("Ngày:    %s\n", a.DayLabel)

	switch a.Special {
	case lunar.SpecialNewMoon:
		fmt.Println("Hôm nay là Mùng 1.")
	case lunar.SpecialFullMoon:
		fmt.Println("Hôm nay là Rằm.")
	}

	return nil
}
