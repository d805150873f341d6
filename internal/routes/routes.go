package routes

import (
	"github.com/gofiber/fiber/v3"
	"github.com/jaytnw/washwatch/internal/handlers"
)

func Setup(app fiber.Router, watchHandler *handlers.WatchHandler, preferenceHandler *handlers.PreferenceHandler) {

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Welcome to washwatch 🧺")
	})

	v1 := app.Group("/v1")

	machines := v1.Group("/machines")
	machines.Get("/", watchHandler.GetMachines)
	machines.Post("/:number/watch", watchHandler.ToggleWatch)
	machines.Get("/:number/end", watchHandler.GetMachineEndDate)

	v1.Get("/watchlist", watchHandler.GetWatchList)
	v1.Post("/refresh", watchHandler.Refresh)

	prefs := v1.Group("/preferences")
	prefs.Get("/", preferenceHandler.GetPreferences)
	prefs.Put("/reminder", preferenceHandler.SetReminderOffset)
	prefs.Put("/notifications", preferenceHandler.SetNotificationsAllowed)
}
