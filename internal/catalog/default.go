package catalog

// Default returns the standard catalog: a staple food, a luxury good,
// and a two-step industrial chain (Ore feeding Machinery).
func Default() *Catalog {
	return MustNew(
		Good{
			Name:          "Fruit",
			Staple:        true,
			Consumption:   P(0.1),
			ProductionCap: P(0).With(ClassRockyOxygen, 1_000_000),
			Inputs: map[string]Parameter{
				Labour: P(0.3),
			},
		},
		Good{
			Name:          "Luxury goods",
			Consumption:   P(0.2),
			ProductionCap: P(100_000),
			LabourCap:     P(1000),
			Inputs: map[string]Parameter{
				Labour: P(0.5),
			},
		},
		Good{
			Name:          "Ore",
			ProductionCap: P(0).With(ClassRockyNoAtmosphere, 50_000).With(ClassRockyCarbonDioxide, 20_000),
			Inputs: map[string]Parameter{
				Labour: P(0.2),
			},
		},
		Good{
			Name:          "Machinery",
			Consumption:   P(0.01),
			ProductionCap: P(5_000),
			Inputs: map[string]Parameter{
				Labour: P(1),
				"Ore":  P(2),
			},
		},
	)
}
