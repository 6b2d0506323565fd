package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"restaurant-availability-backend/config"
	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/db"
	"restaurant-availability-backend/internal/parse"
	"restaurant-availability-backend/internal/store"
)

type slotsOptions struct {
	tenant     string
	restaurant int64
	date       string
	party      int
	preferred  string
	duration   int
}

// newSlotsCmd prints a day's availability straight from the database,
// bypassing the HTTP cache.
func newSlotsCmd(load func() (*config.Config, error)) *cobra.Command {
	var opts slotsOptions

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the available slots of one restaurant day as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			gormDB, err := db.Init(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer closeDB(gormDB)

			appStore := store.NewGormStore(gormDB)
			ctx := cmd.Context()
			if _, err := appStore.GetRestaurant(ctx, opts.tenant, opts.restaurant); err != nil {
				return err
			}

			engine := availability.NewService(store.NewAvailabilitySource(appStore), cfg.Hours.Operating, cfg.Hours.Location)
			resp, err := engine.Availability(ctx, availability.Scope{TenantID: opts.tenant, RestaurantID: opts.restaurant}, q)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "tenant id")
	cmd.Flags().Int64Var(&opts.restaurant, "restaurant", 0, "restaurant id")
	cmd.Flags().StringVar(&opts.date, "date", "", "day to check (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.party, "party", availability.DefaultPartySize, "party size")
	cmd.Flags().StringVar(&opts.preferred, "time", "", "preferred time (HH:MM) for recommendations")
	cmd.Flags().IntVar(&opts.duration, "duration", availability.DefaultDurationMinutes, "reservation length in minutes")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("restaurant")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func (o slotsOptions) query() (availability.Query, error) {
	date, err := parse.Date(o.date)
	if err != nil {
		return availability.Query{}, err
	}
	if o.party < 1 {
		return availability.Query{}, fmt.Errorf("--party must be at least 1")
	}
	if o.duration <= 0 {
		return availability.Query{}, fmt.Errorf("--duration must be positive")
	}
	q := availability.Query{Date: date, PartySize: o.party, DurationMinutes: o.duration}
	if o.preferred != "" {
		t, err := parse.Clock(o.preferred)
		if err != nil {
			return availability.Query{}, err
		}
		q.PreferredTime = &t
	}
	return q, nil
}
