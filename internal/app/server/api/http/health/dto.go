package health

type Input struct{}

type Output struct {
	Body Response
}

// Response состояние сервиса
type Response struct {
	Status  string `json:"status" example:"OK" doc:"Health status of the service"`
	Version string `json:"version" example:"2.0" doc:"Envelope version served at /exec"`
	Storage string `json:"storage" example:"postgres" doc:"Sheet storage backend"`
}
