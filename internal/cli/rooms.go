package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hotelier/internal/hotel/service"
	"hotelier/pkg/model"
)

func newRoomsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Room inventory",
	}
	cmd.AddCommand(newRoomsAddCmd(o))
	cmd.AddCommand(newRoomsListCmd(o))
	return cmd
}

func newRoomsAddCmd(o *options) *cobra.Command {
	var req model.RoomRequest
	c := &cobra.Command{
		Use:   "add",
		Short: "Add a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, svc service.HotelService) error {
				room, err := svc.AddRoom(ctx, &req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "added:", room)
				return nil
			})
		},
	}
	c.Flags().IntVar(&req.Number, "number", 0, "room number")
	c.Flags().StringVar(&req.Type, "type", "", "room type (Standard, Deluxe)")
	c.Flags().Float64Var(&req.Price, "price", 0, "nightly price")
	_ = c.MarkFlagRequired("number")
	_ = c.MarkFlagRequired("type")
	_ = c.MarkFlagRequired("price")
	return c
}

func newRoomsListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, svc service.HotelService) error {
				rooms, err := svc.ListRooms(ctx)
				if err != nil {
					return err
				}
				printRooms(cmd.OutOrStdout(), rooms)
				return nil
			})
		},
	}
}
