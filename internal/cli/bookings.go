package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hotelier/internal/hotel/service"
	"hotelier/pkg/model"
)

func newBookCmd(o *options) *cobra.Command {
	var (
		req  model.BookingRequest
		room int
	)
	c := &cobra.Command{
		Use:   "book",
		Short: "Book the first free room of a type",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("room") {
				req.RoomNumber = &room
			}
			return o.run(cmd, func(ctx context.Context, svc service.HotelService) error {
				result, err := svc.BookRoom(ctx, &req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				if result.Booked {
					fmt.Fprintln(cmd.OutOrStdout(), "booking id:", result.Booking.ID)
				}
				return nil
			})
		},
	}
	c.Flags().StringVar(&req.GuestName, "guest", "", "guest name")
	c.Flags().StringVar(&req.RoomType, "type", "", "room type (Standard, Deluxe)")
	c.Flags().StringVar(&req.CheckIn, "check-in", "", "check-in date, YYYY-MM-DD")
	c.Flags().StringVar(&req.CheckOut, "check-out", "", "check-out date, YYYY-MM-DD")
	c.Flags().IntVar(&room, "room", 0, "book this room number only")
	_ = c.MarkFlagRequired("guest")
	_ = c.MarkFlagRequired("type")
	_ = c.MarkFlagRequired("check-in")
	_ = c.MarkFlagRequired("check-out")
	return c
}

func newBookingsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Existing bookings",
	}
	cmd.AddCommand(newBookingsListCmd(o))
	cmd.AddCommand(newBookingsCancelCmd(o))
	return cmd
}

func newBookingsListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bookings in the order they were made",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, svc service.HotelService) error {
				bookings, err := svc.ListBookings(ctx)
				if err != nil {
					return err
				}
				printBookings(cmd.OutOrStdout(), bookings)
				return nil
			})
		},
	}
}

func newBookingsCancelCmd(o *options) *cobra.Command {
	var (
		id    string
		index int
	)
	c := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a booking by ID or by its position in the list",
		RunE: func(cmd *cobra.Command, args []string) error {
			byID, byIndex := cmd.Flags().Changed("id"), cmd.Flags().Changed("index")
			if byID == byIndex {
				return errors.New("exactly one of --id or --index is required")
			}
			return o.run(cmd, func(ctx context.Context, svc service.HotelService) error {
				var (
					b   *model.Booking
					err error
				)
				if byID {
					b, err = svc.CancelBooking(ctx, id)
				} else {
					b, err = svc.CancelBookingAt(ctx, index)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled:", b)
				return nil
			})
		},
	}
	c.Flags().StringVar(&id, "id", "", "booking ID")
	c.Flags().IntVar(&index, "index", 0, "zero-based position in 'bookings list'")
	return c
}
