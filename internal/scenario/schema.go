package scenario

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/san-kum/regensim/internal/dynamo"
)

const schemaSource = `
#Sample: {
	t:         number & >=0
	speed_kmh: number & >=0
}

#BrakingEvent: {
	start_s:    number & >=0
	duration_s: number & >0
	intensity:  number & >=0 & <=1
}

#Scenario: {
	name:         string
	description?: string
	duration_s:   number & >=0
	road: {
		type:         string
		roughness:    number & >=0 & <=1
		incline_deg?: number & >=-30 & <=30
	}
	speed_profile: [...#Sample]
	load_factor:   number & >=0 & <=1
	ambient?: {
		temperature_c?: number & >=-40 & <=60
		humidity?:      number & >=0 & <=1
		wind_speed?:    number & >=0
	}
	braking_events?: [...#BrakingEvent]
}
`

// ValidateSchema checks raw YAML against the scenario CUE definition.
func ValidateSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource)
	if schema.Err() != nil {
		return fmt.Errorf("compile scenario schema: %w", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath("#Scenario"))

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidScenario, err)
	}
	val := ctx.BuildFile(file)
	if val.Err() != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidScenario, val.Err())
	}

	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: schema validation failed: %v", dynamo.ErrInvalidScenario, err)
	}
	return nil
}
