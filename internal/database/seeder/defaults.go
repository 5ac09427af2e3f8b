package seeder

// Defaults returns the development dataset: one demo account and a spread of
// applications across every status.
func Defaults() []Seeder {
	return []Seeder{
		DemoUserSeeder{},
		DemoApplicationsSeeder{},
	}
}
