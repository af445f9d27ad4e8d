package dto

type DriverSignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	VehicleType  string `json:"vehicle_type"`
	VehiclePlate string `json:"vehicle_plate"`
}

type DriverLocationRequest struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	IsAvailable bool    `json:"is_available"`
}
