package dto

type CameraResponse struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Zoom     float64 `json:"zoom"`
	Animated bool    `json:"animated"`
}
