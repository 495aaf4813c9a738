package models

import (
	"time"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
)

// AssetKind is the URL segment naming one asset registry.
type AssetKind string

const (
	KindPointMachine AssetKind = "point-machines"
	KindSignal       AssetKind = "signals"
	KindTrackCircuit AssetKind = "track-circuits"
	KindAxleCounter  AssetKind = "axle-counters"
	KindEIUnit       AssetKind = "ei-units"
)

func AssetKinds() []AssetKind {
	return []AssetKind{KindPointMachine, KindSignal, KindTrackCircuit, KindAxleCounter, KindEIUnit}
}

func (k AssetKind) Valid() bool {
	for _, v := range AssetKinds() {
		if v == k {
			return true
		}
	}
	return false
}

const (
	AssetWorking          = "working"
	AssetFaulty           = "faulty"
	AssetUnderMaintenance = "under_maintenance"
	AssetDecommissioned   = "decommissioned"
)

// AssetBase holds the columns every registry shares. (station, identifier)
// is unique within each registry table.
type AssetBase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Station     string    `gorm:"size:120;not null" json:"station"`
	Identifier  string    `gorm:"size:60;not null" json:"identifier"`
	Section     string    `gorm:"size:120" json:"section,omitempty"`
	Make        string    `gorm:"size:120" json:"make,omitempty"`
	Model       string    `gorm:"size:120" json:"model,omitempty"`
	SerialNo    string    `gorm:"size:120" json:"serialNo,omitempty"`
	InstalledOn string    `gorm:"size:10" json:"installedOn,omitempty"`
	Status      string    `gorm:"size:24;not null;default:working;index" json:"status"`
	Remarks     string    `gorm:"type:text" json:"remarks,omitempty"`
	CreatedBy   uint      `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (b *AssetBase) validate() error {
	if b.Station == "" || b.Identifier == "" {
		return errs.Invalid("station and identifier are required")
	}
	if b.Status == "" {
		b.Status = AssetWorking
	}
	if !oneOf(b.Status, AssetWorking, AssetFaulty, AssetUnderMaintenance, AssetDecommissioned) {
		return errs.Invalidf("invalid asset status %q", b.Status)
	}
	if b.InstalledOn != "" {
		if _, err := time.Parse(DateLayout, b.InstalledOn); err != nil {
			return errs.Invalid("installedOn must be YYYY-MM-DD")
		}
	}
	return nil
}

type PointMachine struct {
	AssetBase
	MachineType   string `gorm:"size:60" json:"machineType,omitempty"`
	PointType     string `gorm:"size:16" json:"pointType,omitempty"`
	ThrowMM       int    `json:"throwMm,omitempty"`
	CrankHandleNo string `gorm:"size:60" json:"crankHandleNo,omitempty"`
}

func (PointMachine) TableName() string   { return "point_machines" }
func (PointMachine) Kind() AssetKind     { return KindPointMachine }
func (p *PointMachine) Base() *AssetBase { return &p.AssetBase }

func (p *PointMachine) Validate() error {
	if err := p.validate(); err != nil {
		return err
	}
	if p.PointType != "" && !oneOf(p.PointType, "single", "crossover", "turnout") {
		return errs.Invalidf("invalid point type %q", p.PointType)
	}
	if p.ThrowMM < 0 {
		return errs.Invalid("throwMm cannot be negative")
	}
	return nil
}

type Signal struct {
	AssetBase
	SignalType string `gorm:"size:24" json:"signalType,omitempty"`
	Aspects    int    `json:"aspects,omitempty"`
	LampType   string `gorm:"size:16" json:"lampType,omitempty"`
	PostNo     string `gorm:"size:60" json:"postNo,omitempty"`
}

func (Signal) TableName() string   { return "signals" }
func (Signal) Kind() AssetKind     { return KindSignal }
func (s *Signal) Base() *AssetBase { return &s.AssetBase }

func (s *Signal) Validate() error {
	if err := s.validate(); err != nil {
		return err
	}
	if s.SignalType != "" && !oneOf(s.SignalType, "home", "starter", "advanced_starter", "distant", "shunt", "calling_on", "routing") {
		return errs.Invalidf("invalid signal type %q", s.SignalType)
	}
	if s.Aspects < 0 || s.Aspects > 4 {
		return errs.Invalid("aspects must be between 0 and 4")
	}
	if s.LampType != "" && !oneOf(s.LampType, "led", "filament") {
		return errs.Invalidf("invalid lamp type %q", s.LampType)
	}
	return nil
}

type TrackCircuit struct {
	AssetBase
	CircuitType string  `gorm:"size:16" json:"circuitType,omitempty"`
	LengthM     float64 `json:"lengthM,omitempty"`
	FeedEnd     string  `gorm:"size:60" json:"feedEnd,omitempty"`
	RelayEnd    string  `gorm:"size:60" json:"relayEnd,omitempty"`
	RelayType   string  `gorm:"size:60" json:"relayType,omitempty"`
}

func (TrackCircuit) TableName() string   { return "track_circuits" }
func (TrackCircuit) Kind() AssetKind     { return KindTrackCircuit }
func (t *TrackCircuit) Base() *AssetBase { return &t.AssetBase }

func (t *TrackCircuit) Validate() error {
	if err := t.validate(); err != nil {
		return err
	}
	if t.CircuitType != "" && !oneOf(t.CircuitType, "dc", "aftc", "audio") {
		return errs.Invalidf("invalid circuit type %q", t.CircuitType)
	}
	if t.LengthM < 0 {
		return errs.Invalid("lengthM cannot be negative")
	}
	return nil
}

type AxleCounter struct {
	AssetBase
	CounterType     string `gorm:"size:16" json:"counterType,omitempty"`
	SectionFrom     string `gorm:"size:120" json:"sectionFrom,omitempty"`
	SectionTo       string `gorm:"size:120" json:"sectionTo,omitempty"`
	EvaluatorSerial string `gorm:"size:120" json:"evaluatorSerial,omitempty"`
}

func (AxleCounter) TableName() string   { return "axle_counters" }
func (AxleCounter) Kind() AssetKind     { return KindAxleCounter }
func (a *AxleCounter) Base() *AssetBase { return &a.AssetBase }

func (a *AxleCounter) Validate() error {
	if err := a.validate(); err != nil {
		return err
	}
	if a.CounterType != "" && !oneOf(a.CounterType, "ssdac", "msdac", "hassdac") {
		return errs.Invalidf("invalid counter type %q", a.CounterType)
	}
	return nil
}

// EIUnit is an electronic interlocking installation.
type EIUnit struct {
	AssetBase
	Vendor          string `gorm:"size:120" json:"vendor,omitempty"`
	SoftwareVersion string `gorm:"size:60" json:"softwareVersion,omitempty"`
	Routes          int    `json:"routes,omitempty"`
	Redundancy      string `gorm:"size:16" json:"redundancy,omitempty"`
	CommissionedOn  string `gorm:"size:10" json:"commissionedOn,omitempty"`
}

func (EIUnit) TableName() string   { return "ei_units" }
func (EIUnit) Kind() AssetKind     { return KindEIUnit }
func (e *EIUnit) Base() *AssetBase { return &e.AssetBase }

func (e *EIUnit) Validate() error {
	if err := e.validate(); err != nil {
		return err
	}
	if e.Redundancy != "" && !oneOf(e.Redundancy, "2oo2", "2oo3", "hot_standby") {
		return errs.Invalidf("invalid redundancy %q", e.Redundancy)
	}
	if e.Routes < 0 {
		return errs.Invalid("routes cannot be negative")
	}
	if e.CommissionedOn != "" {
		if _, err := time.Parse(DateLayout, e.CommissionedOn); err != nil {
			return errs.Invalid("commissionedOn must be YYYY-MM-DD")
		}
	}
	return nil
}

// AssetTables lists the registry tables, for index creation and stats.
func AssetTables() map[AssetKind]string {
	return map[AssetKind]string{
		KindPointMachine: PointMachine{}.TableName(),
		KindSignal:       Signal{}.TableName(),
		KindTrackCircuit: TrackCircuit{}.TableName(),
		KindAxleCounter:  AxleCounter{}.TableName(),
		KindEIUnit:       EIUnit{}.TableName(),
	}
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
