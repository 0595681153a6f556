package backend

type IncidentRequest struct {
	StationId   string `json:"stationId"`
	StationName string `json:"stationName"`
}

type Incident struct {
	Id       string `json:"sosId"`
	RoomName string `json:"roomName"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type hangupRequest struct {
	IncidentId string `json:"sosId"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
