package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"farm-service/internal/crop"
	"farm-service/internal/geometry"
	"farm-service/internal/metric"
)

type State string

const (
	StateEmpty      State = "empty"
	StateDrawing    State = "drawing"
	StateDrafted    State = "drafted"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateCancelled  State = "cancelled"
)

var (
	ErrUnknownEntity  = errors.New("unknown form entity")
	ErrShapeKind      = errors.New("shape kind does not match form")
	ErrNoShape        = errors.New("no shape drawn")
	ErrNameRequired   = errors.New("name is required")
	ErrParentRequired = errors.New("parent selection is required")
	ErrSlotRange      = errors.New("crop slot out of range")
	ErrClosed         = errors.New("form is closed")
	ErrBusy           = errors.New("submission already in progress")
)

// Shape is what the map's draw-created and draw-edited events carry.
type Shape struct {
	LayerID string
	Kind    geometry.Kind
	Points  []geometry.LatLng
	RadiusM float64
}

// Canvas is the drawn-items layer of the form's map.
type Canvas interface {
	RemoveLayer(id string)
	AddLayer(id string, g geometry.Geometry, radiusM float64)
}

// SubmitFunc delivers the payload to whoever persists it.
type SubmitFunc func(ctx context.Context, p Payload) error

type Option func(*Controller)

func WithCanvas(c Canvas) Option {
	return func(ctl *Controller) {
		ctl.canvas = c
	}
}

// Controller holds the draft of one add/edit form.
type Controller struct {
	mu     sync.Mutex
	entity Entity
	traits entityTraitSet
	canvas Canvas

	state   State
	err     error
	id      uint
	layerID string
	draft   geometry.Geometry
	radiusM float64
	area    float64

	name        string
	color       string
	water       float64
	crops       [crop.SlotCount]string
	seedingDate string
	harvestDate string

	selected     uint
	lookup       []LookupOption
	lookupLoaded bool
}

func New(entity Entity, opts ...Option) (*Controller, error) {
	traits, ok := entityTraits[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}

	c := &Controller{
		entity: entity,
		traits: traits,
		state:  StateEmpty,
		color:  traits.defaultColor,
		draft:  geometry.Geometry{Kind: traits.shape, SRID: geometry.DefaultSRID},
	}
	for i := range c.crops {
		c.crops[i] = crop.None
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Load pre-populates the form from an existing entity. Stored shape text
// that does not parse leaves the form without a shape.
func (c *Controller) Load(in Initial) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.id = in.ID
	c.name = in.Name
	if in.Color != "" {
		c.color = in.Color
	}
	c.water = in.TotalWaterRequirement
	for i, v := range in.Crops {
		c.crops[i] = crop.Normalize(v)
	}
	c.seedingDate = in.SeedingDate
	c.harvestDate = in.HarvestDate
	c.selected = in.ParentID
	c.area = in.Area

	text := in.Shape
	if c.traits.shape == geometry.KindPoint {
		text = in.Center
	}
	if c.traits.circle {
		c.radiusM = in.RadiusM
	}

	if g, ok := geometry.Parse(text); ok && g.Kind == c.traits.shape {
		c.replaceShape(fmt.Sprintf("%s-%d", c.entity, in.ID), g)
		c.area = metric.Area(g, c.radiusM)
		c.state = StateDrafted
	}

	c.reconcileSelection()
}

// SetLookup installs the parent list. It may arrive before or after Load.
func (c *Controller) SetLookup(options []LookupOption) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lookup = append([]LookupOption(nil), options...)
	c.lookupLoaded = true
	c.reconcileSelection()
}

func (c *Controller) reconcileSelection() {
	if !c.lookupLoaded {
		return
	}
	if c.selected != 0 {
		for _, o := range c.lookup {
			if o.ID == c.selected {
				return
			}
		}
		c.selected = 0
	}
	if len(c.lookup) == 1 {
		c.selected = c.lookup[0].ID
	}
}

func (c *Controller) BeginDraw() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed() {
		return ErrClosed
	}
	if c.state == StateSubmitting {
		return ErrBusy
	}
	c.state = StateDrawing
	return nil
}

// ShapeCreated commits a newly drawn shape, replacing any prior one.
func (c *Controller) ShapeCreated(s Shape) error {
	return c.commit(s, false)
}

// ShapeEdited commits an edit of the current shape. A circle edit without a
// positive radius keeps the current one.
func (c *Controller) ShapeEdited(s Shape) error {
	return c.commit(s, true)
}

func (c *Controller) commit(s Shape, edit bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed() {
		return ErrClosed
	}
	if c.state == StateSubmitting {
		return ErrBusy
	}
	if edit && c.draft.IsEmpty() {
		return ErrNoShape
	}
	if s.Kind != c.traits.shape {
		return fmt.Errorf("%w: got %s, want %s", ErrShapeKind, s.Kind, c.traits.shape)
	}

	var g geometry.Geometry
	switch s.Kind {
	case geometry.KindPoint:
		if len(s.Points) != 1 {
			return geometry.ErrInvalidPoint
		}
		g = geometry.NewPoint(s.Points[0])
	case geometry.KindPolygon:
		g = geometry.NewPolygon(s.Points)
	}

	// An edit that only moves the center carries no radius.
	if c.traits.circle && (!edit || s.RadiusM > 0) {
		c.radiusM = metric.Round2(s.RadiusM)
	}
	c.replaceShape(s.LayerID, g)
	c.area = metric.Area(g, c.radiusM)
	c.state = StateDrafted
	c.err = nil
	return nil
}

func (c *Controller) replaceShape(layerID string, g geometry.Geometry) {
	if c.canvas != nil {
		if c.layerID != "" {
			c.canvas.RemoveLayer(c.layerID)
		}
		c.canvas.AddLayer(layerID, g, c.radiusM)
	}
	c.layerID = layerID
	c.draft = g
}

// SetRadius changes the radius of a drawn circle and recomputes its area.
func (c *Controller) SetRadius(radiusM float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.traits.circle {
		return ErrShapeKind
	}
	if c.draft.IsEmpty() {
		return ErrNoShape
	}
	c.radiusM = metric.Round2(radiusM)
	c.area = metric.CircleArea(c.radiusM)
	return nil
}

func (c *Controller) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

func (c *Controller) SetColor(color string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = color
}

func (c *Controller) SetWaterRequirement(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.water = v
}

// SetCrop sets slot 1..4.
func (c *Controller) SetCrop(slot int, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.traits.crops || slot < 1 || slot > crop.SlotCount {
		return ErrSlotRange
	}
	c.crops[slot-1] = crop.Normalize(value)
	return nil
}

func (c *Controller) SetDates(seeding, harvest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seedingDate = seeding
	c.harvestDate = harvest
}

func (c *Controller) Select(parentID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = parentID
}

func (c *Controller) Selected() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err is the last validation or submission failure.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Area() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.area
}

func (c *Controller) RadiusM() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radiusM
}

// Dates returns the seeding and harvest dates as entered.
func (c *Controller) Dates() (seeding, harvest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seedingDate, c.harvestDate
}

func (c *Controller) Geometry() geometry.Geometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) ID() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Submit validates the draft and hands the payload to submit. The controller
// stays Drafted when validation or submit fails.
func (c *Controller) Submit(ctx context.Context, submit SubmitFunc) error {
	c.mu.Lock()
	if c.closed() {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}

	payload, err := c.payload()
	if err != nil {
		c.err = err
		c.mu.Unlock()
		return err
	}
	previous := c.state
	c.state = StateSubmitting
	c.mu.Unlock()

	err = submit(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = err
		c.state = previous
		if previous == StateDrawing {
			c.state = StateDrafted
		}
		return err
	}
	c.err = nil
	c.state = StateSucceeded
	return nil
}

// Cancel discards the draft.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.canvas != nil && c.layerID != "" {
		c.canvas.RemoveLayer(c.layerID)
	}
	c.layerID = ""
	c.draft = geometry.Geometry{Kind: c.traits.shape, SRID: geometry.DefaultSRID}
	c.radiusM = 0
	c.area = 0
	c.err = nil
	c.state = StateCancelled
}

func (c *Controller) closed() bool {
	return c.state == StateSucceeded || c.state == StateCancelled
}

func (c *Controller) payload() (Payload, error) {
	var p Payload

	name := strings.TrimSpace(c.name)
	if name == "" {
		return p, ErrNameRequired
	}
	if c.traits.logicalName {
		p.LogicalName = name
	} else {
		p.Name = name
	}
	p.Color = c.color

	if c.traits.parent != "" && c.selected == 0 {
		return p, fmt.Errorf("%w: %s", ErrParentRequired, c.traits.parent)
	}

	if c.traits.crops {
		if err := crop.ValidateSlots(c.crops); err != nil {
			return p, err
		}
		p.Crop1, p.Crop2, p.Crop3, p.Crop4 = c.crops[0], c.crops[1], c.crops[2], c.crops[3]
		p.SeedingDate = optional(c.seedingDate)
		p.HarvestDate = optional(c.harvestDate)
	}

	if c.draft.IsEmpty() {
		if c.traits.shapeNeeded {
			return p, ErrNoShape
		}
	} else {
		if err := geometry.Validate(c.draft); err != nil {
			return p, err
		}
		text, err := geometry.Encode(c.draft)
		if err != nil {
			return p, err
		}
		if c.traits.shape == geometry.KindPoint {
			p.Center = &text
		} else {
			p.Shape = &text
		}
	}

	if c.traits.circle {
		radius := c.radiusM
		p.RadiusM = &radius
	}
	if c.traits.shapeNeeded {
		area := c.area
		p.Area = &area
	}
	if c.traits.water {
		water := c.water
		p.TotalWaterRequirement = &water
	}

	if c.selected != 0 {
		id := c.selected
		switch c.traits.parent {
		case EntityCompany:
			p.CompanyID = &id
		case EntityRegion:
			p.RegionID = &id
		case EntitySector:
			p.SectorID = &id
		}
	}

	return p, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
