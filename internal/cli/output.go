package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"hotelier/pkg/model"
)

func printRooms(w io.Writer, rooms []model.Room) {
	if len(rooms) == 0 {
		fmt.Fprintln(w, "no rooms")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tTYPE\tPRICE")
	for _, r := range rooms {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Number, r.Type, model.FormatPrice(r.Price))
	}
	_ = tw.Flush()
}

func printBookings(w io.Writer, bookings []model.Booking) {
	if len(bookings) == 0 {
		fmt.Fprintln(w, "no bookings")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tBOOKING")
	for i, b := range bookings {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, b.ID, b)
	}
	_ = tw.Flush()
}
