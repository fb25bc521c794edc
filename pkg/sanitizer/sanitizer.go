package sanitizer

import "hotelier/pkg/model"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	guestNamePipeline = Pipeline{NormalizeName}
	roomTypePipeline  = Pipeline{TrimAndNormalize, NormalizeRoomType}
	datePipeline      = Pipeline{TrimAndNormalize}
)

func SanitizeRoomRequest(req *model.RoomRequest) {
	req.Type = roomTypePipeline.Apply(req.Type)
}

func SanitizeBookingRequest(req *model.BookingRequest) {
	req.GuestName = guestNamePipeline.Apply(req.GuestName)
	req.RoomType = roomTypePipeline.Apply(req.RoomType)
	req.CheckIn = datePipeline.Apply(req.CheckIn)
	req.CheckOut = datePipeline.Apply(req.CheckOut)
}

func SanitizeAvailabilityRequest(req *model.AvailabilityRequest) {
	req.From = datePipeline.Apply(req.From)
	req.Until = datePipeline.Apply(req.Until)
	req.RoomType = roomTypePipeline.Apply(req.RoomType)
}
