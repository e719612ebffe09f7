package review

type CreateReviewRequest struct {
	BookingID int64  `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment,omitempty"`
}

type PhotographerResponseRequest struct {
	Response string `json:"response" binding:"required"`
}

type HideRequest struct {
	Hidden bool `json:"hidden"`
}
