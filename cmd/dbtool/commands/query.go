package commands

import (
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/services"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func distanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance [origin] [destination]",
		Short: "Resolve the distance and travel time between two cities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := domain.ParseCity(args[0])
			if err != nil {
				return err
			}
			dest, err := domain.ParseCity(args[1])
			if err != nil {
				return err
			}

			resolver, err := services.NewRouteResolver(cmd.Context(), store)
			if err != nil {
				return err
			}

			leg, err := resolver.Resolve(origin, dest)
			if err != nil {
				return err
			}

			fmt.Printf("%s -> %s: %d km, %.2f h\n", origin, dest, leg.DistanceKm, leg.TravelHours)
			return nil
		},
	}
}

func carriersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "carriers [city] [FTL|LTL]",
		Short: "List carriers with capacity at a city",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			city, err := domain.ParseCity(args[0])
			if err != nil {
				return err
			}
			job, err := domain.ParseJobType(args[1])
			if err != nil {
				return err
			}

			rows, err := services.NewCapacityLedger(store).ListCarriersAt(cmd.Context(), city, job)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Printf("No active carriers with %s capacity at %s.\n", job, city)
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCARRIER\tFTL\tLTL\tFTL RATE\tLTL RATE\tREEFER")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
					r.Carrier.CarrierID, r.Carrier.Name, r.FTLAvailable, r.LTLAvailable,
					r.Carrier.FTLRate, r.Carrier.LTLRate, r.Carrier.ReeferCharge)
			}
			return tw.Flush()
		},
	}
}
