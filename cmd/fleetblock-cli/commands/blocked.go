package commands

import (
	"fleetblock-backend/lib/scrapers/rcm"
	"fleetblock-backend/lib/serviceutil"
	"fleetblock-backend/lib/timezone"
	"fleetblock-backend/services/blocked"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	blockedFrom       string
	blockedTo         string
	blockedLocation   string
	blockedCategories []int
	blockedSort       string
)

func init() {
	flags := blockedCmd.Flags()
	flags.StringVar(&blockedFrom, "from", "", "First day of the range, defaults to today.")
	flags.StringVar(&blockedTo, "to", "", "Last day of the range, defaults to a week after --from.")
	flags.StringVar(&blockedLocation, "location", "", "Location id, code or name, all locations if omitted.")
	flags.IntSliceVar(&blockedCategories, "category", nil, "Category ids to fetch, repeatable.")
	flags.StringVar(&blockedSort, "sort", string(blocked.SortDateAsc), "One of date-asc, date-desc, days-asc, days-desc.")
	rootCmd.AddCommand(blockedCmd)
}

func carLabel(r blocked.Reservation) string {
	if r.CarDetails == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", r.CarDetails.Make, r.CarDetails.Model)
}

var blockedCmd = &cobra.Command{
	Use:   "blocked [--from dd/mm/yyyy] [--to dd/mm/yyyy] [--location SYD] [--category 47]...",
	Short: "Lists the vehicles blocked for maintenance.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client := newClient(cfg)
		service := blocked.NewService(client, cfg.Blocked.Options())

		from := blockedFrom
		if from == "" {
			from = rcm.FormatDate(timezone.Now())
		}
		to := blockedTo
		if to == "" {
			start, err := rcm.ParseDate(from)
			if err != nil {
				serviceutil.Fatal("invalid --from", err)
			}
			to = rcm.FormatDate(start.AddDate(0, 0, 7))
		}

		locationID := blocked.AllLocations
		if blockedLocation != "" {
			loc, ok := service.Locations().FindLocation(blockedLocation)
			if !ok {
				serviceutil.Fatal("unknown location", fmt.Errorf("%q matches no location", blockedLocation))
			}
			locationID = loc.ID
		}

		session := login(cmd.Context(), cfg, client)
		t1 := time.Now()
		result, err := service.FetchBlocked(cmd.Context(), session, blocked.FetchParams{
			From:        from,
			To:          to,
			LocationID:  locationID,
			CategoryIDs: blockedCategories,
			Sort:        blockedSort,
		})
		if err != nil {
			serviceutil.Fatal("failed to fetch blocked vehicles", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Key", "Category", "Rego", "Vehicle", "Pickup", "Dropoff", "Days", "Locations", "Reason"})
		for _, r := range result.Data {
			rego := r.RegistrationNo
			if rego == "" {
				rego = r.CurrentRcmRegistrationNo
			}
			t.AppendRow(table.Row{
				r.Key(),
				r.CategoryID,
				rego,
				carLabel(r),
				r.PickupDateTime,
				r.DropoffDateTime,
				r.RentalDays,
				r.PickupLocation + " > " + r.DropoffLocation,
				r.AcLastName,
			})
		}
		t.AppendFooter(table.Row{
			"Total " + strconv.Itoa(result.Stats.TotalBlocked),
			"",
			"Today " + strconv.Itoa(result.Stats.BlockedToday),
			"",
			"",
			"",
			"",
			"",
			"Top " + result.Stats.TopReason,
		})
		t.SetStyle(table.StyleRounded)
		t.Render()

		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "category %d failed: %s\n", e.CategoryID, e.Error)
		}
		fmt.Fprintf(os.Stderr, "fetched in %.1fs\n", time.Since(t1).Seconds())
	},
}
