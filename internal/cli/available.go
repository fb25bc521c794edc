package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hotelier/internal/hotel/service"
	"hotelier/pkg/model"
)

func newAvailableCmd(o *options) *cobra.Command {
	var (
		req     model.AvailabilityRequest
		numbers bool
	)
	c := &cobra.Command{
		Use:   "available",
		Short: "Show rooms free for a whole date range (default: today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, svc service.HotelService) error {
				if numbers {
					nums, err := svc.AvailableRoomNumbers(ctx, &req)
					if err != nil {
						return err
					}
					parts := make([]string, 0, len(nums))
					for _, n := range nums {
						parts = append(parts, model.FormatRoomNumber(n))
					}
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
					return nil
				}

				rooms, err := svc.AvailableRooms(ctx, &req)
				if err != nil {
					return err
				}
				printRooms(cmd.OutOrStdout(), rooms)
				return nil
			})
		},
	}
	c.Flags().StringVar(&req.From, "from", "", "first night, YYYY-MM-DD")
	c.Flags().StringVar(&req.Until, "until", "", "last day, YYYY-MM-DD (default: --from)")
	c.Flags().StringVar(&req.RoomType, "type", "", "only rooms of this type")
	c.Flags().BoolVar(&numbers, "numbers", false, "print only room numbers (requires --type)")
	return c
}
