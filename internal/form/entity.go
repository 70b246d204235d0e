package form

import "farm-service/internal/geometry"

// Entity names the record a form edits.
type Entity string

const (
	EntityCompany Entity = "company"
	EntityRegion  Entity = "region"
	EntitySector  Entity = "sector"
	EntityPivot   Entity = "pivot"
	EntityField   Entity = "field"
)

type entityTraitSet struct {
	shape        geometry.Kind
	shapeNeeded  bool
	circle       bool
	parent       Entity
	logicalName  bool
	crops        bool
	water        bool
	defaultColor string
}

var entityTraits = map[Entity]entityTraitSet{
	EntityCompany: {
		shape:        geometry.KindPoint,
		defaultColor: "#3388FF",
	},
	EntityRegion: {
		shape:        geometry.KindPoint,
		parent:       EntityCompany,
		defaultColor: "#3388FF",
	},
	EntitySector: {
		shape:        geometry.KindPolygon,
		shapeNeeded:  true,
		parent:       EntityRegion,
		water:        true,
		defaultColor: "#0000FF",
	},
	EntityPivot: {
		shape:        geometry.KindPoint,
		shapeNeeded:  true,
		circle:       true,
		parent:       EntitySector,
		logicalName:  true,
		crops:        true,
		defaultColor: "#FF0000",
	},
	EntityField: {
		shape:        geometry.KindPolygon,
		shapeNeeded:  true,
		parent:       EntitySector,
		logicalName:  true,
		crops:        true,
		defaultColor: "#00AA00",
	},
}

// Parent reports the entity picked from the form's lookup list.
func (e Entity) Parent() (Entity, bool) {
	s, ok := entityTraits[e]
	return s.parent, ok && s.parent != ""
}

func (e Entity) ShapeKind() geometry.Kind {
	return entityTraits[e].shape
}

// IsCircle is true for point forms that also carry a radius.
func (e Entity) IsCircle() bool {
	return entityTraits[e].circle
}

func (e Entity) HasCrops() bool {
	return entityTraits[e].crops
}
