package permissions

// Core permission registrations for the event-management platform.
// "*.manage" implies the matching "*.view".
func init() {
	register := func(module, description string) {
		Register(Permission{
			ID:          module + ".view",
			Module:      module,
			Description: "View " + description,
		})
		Register(Permission{
			ID:          module + ".manage",
			Module:      module,
			Implies:     []string{module + ".view"},
			Description: "Manage " + description,
		})
	}

	register("event", "events")
	register("participant", "event participants")
	register("program", "program sessions, speakers and sponsors")
	register("appointment", "networking appointments")
	register("template", "email templates")
	register("campaign", "email campaigns")
	register("notification", "in-app notifications")
	register("user", "users and roles")

	Register(Permission{
		ID:          "audit.view",
		Module:      "audit",
		Description: "View the audit log",
	})
}
