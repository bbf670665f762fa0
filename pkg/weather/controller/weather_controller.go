package controller

import "github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"

// WeatherController exposes the weather.* procedures.
type WeatherController interface {
	Register(r *rpc.Router)
}
