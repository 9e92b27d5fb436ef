package archecs

// Test component types shared across this package's test files.
type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

// Team is a shared-data component: every entity in a chunk set has the
// same team value.
type Team struct {
	Name string
}
