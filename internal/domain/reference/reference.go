// Package reference expone las tablas estáticas por estado (tarifas de reporte anual y
// enlaces oficiales). Los datos vienen embebidos en YAML y se parsean una sola vez.
package reference

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

// Frecuencias de presentación.
const (
	FrequencyAnnual   = "annual"
	FrequencyBiennial = "biennial"
	FrequencyNone     = "none"
)

// Campos por defecto que pide casi cualquier estado en el reporte anual.
var defaultRequiredFields = []string{
	"principalOfficeAddress",
	"registeredAgentName",
	"registeredAgentAddress",
	"managersOrOfficers",
}

//go:embed state_fees.yaml
var stateFeesYAML []byte

//go:embed state_resources.yaml
var stateResourcesYAML []byte

// StateFilingFee tarifa de reporte anual para un estado y tipo de entidad.
type StateFilingFee struct {
	Fee       decimal.Decimal `yaml:"fee" json:"fee"`
	Frequency string          `yaml:"frequency" json:"frequency"`
	DueDate   string          `yaml:"dueDate" json:"dueDate"`
	LateFee   decimal.Decimal `yaml:"lateFee" json:"lateFee"`
	Notes     string          `yaml:"notes" json:"notes,omitempty"`
}

// StateResources enlaces oficiales de un estado.
type StateResources struct {
	SecretaryOfState string `yaml:"secretaryOfState" json:"secretaryOfState"`
	TaxAgency        string `yaml:"taxAgency" json:"taxAgency"`
	IRSEin           string `yaml:"irsEin" json:"irsEin"`
}

type stateEntry struct {
	Code           string                    `yaml:"code"`
	RequiredFields []string                  `yaml:"requiredFields"`
	Entities       map[string]StateFilingFee `yaml:"entities"`
}

type feesFile struct {
	States map[string]stateEntry `yaml:"states"`
}

type resourcesFile struct {
	States map[string]StateResources `yaml:"states"`
}

type tables struct {
	fees      map[string]stateEntry
	resources map[string]StateResources
	byKey     map[string]string // clave normalizada (nombre o código) → nombre canónico
	names     []string
}

var (
	loadOnce sync.Once
	loaded   *tables
)

func init() {
	validate.RegisterStringRule("us_state", func(s string) bool {
		_, ok := CanonicalState(s)
		return ok
	})
}

func data() *tables {
	loadOnce.Do(func() {
		t, err := parse(stateFeesYAML, stateResourcesYAML)
		if err != nil {
			// Los YAML van embebidos en el binario: un error aquí es un bug de build.
			panic(fmt.Sprintf("reference: %v", err))
		}
		loaded = t
	})
	return loaded
}

func parse(feesRaw, resourcesRaw []byte) (*tables, error) {
	var ff feesFile
	if err := yaml.Unmarshal(feesRaw, &ff); err != nil {
		return nil, fmt.Errorf("parse state_fees: %w", err)
	}
	var rf resourcesFile
	if err := yaml.Unmarshal(resourcesRaw, &rf); err != nil {
		return nil, fmt.Errorf("parse state_resources: %w", err)
	}
	t := &tables{
		fees:      ff.States,
		resources: rf.States,
		byKey:     make(map[string]string, len(ff.States)*2),
	}
	for name, st := range ff.States {
		t.byKey[normalize(name)] = name
		if st.Code != "" {
			t.byKey[normalize(st.Code)] = name
		}
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t, nil
}

// normalize pliega mayúsculas y espacios. cases.Caser no es seguro entre goroutines.
func normalize(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// CanonicalState devuelve el nombre oficial del estado a partir de un nombre en cualquier
// capitalización o de su código postal de dos letras.
func CanonicalState(s string) (string, bool) {
	name, ok := data().byKey[normalize(s)]
	return name, ok
}

// canonicalEntityType resuelve alias comunes (S-Corp, C-Corp, non-profit) al tipo de la tabla.
func canonicalEntityType(entry stateEntry, entityType string) (string, bool) {
	key := normalize(entityType)
	switch key {
	case "corp", "c-corp", "c corp", "s-corp", "s corp", "inc":
		key = normalize("Corporation")
	case "non-profit", "non profit", "nonprofit corporation":
		key = normalize("Nonprofit")
	case "limited liability company":
		key = normalize("LLC")
	}
	for t := range entry.Entities {
		if normalize(t) == key {
			return t, true
		}
	}
	return "", false
}

// States lista los estados conocidos (incluye District of Columbia), ordenados.
func States() []string {
	out := make([]string, len(data().names))
	copy(out, data().names)
	return out
}

// StateCode devuelve el código postal del estado, o "" si no existe.
func StateCode(state string) string {
	name, ok := CanonicalState(state)
	if !ok {
		return ""
	}
	return data().fees[name].Code
}

// GetStateFilingFee devuelve la tarifa para (estado, tipo de entidad) o nil si no existe.
func GetStateFilingFee(state, entityType string) *StateFilingFee {
	name, ok := CanonicalState(state)
	if !ok {
		return nil
	}
	entry := data().fees[name]
	t, ok := canonicalEntityType(entry, entityType)
	if !ok {
		return nil
	}
	fee := entry.Entities[t]
	return &fee
}

// GetStateEntityTypes devuelve los tipos de entidad con tarifa en el estado, ordenados.
func GetStateEntityTypes(state string) []string {
	name, ok := CanonicalState(state)
	if !ok {
		return nil
	}
	entities := data().fees[name].Entities
	out := make([]string, 0, len(entities))
	for t := range entities {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// GetStateFee devuelve solo el importe; cero si no hay tarifa.
func GetStateFee(state, entityType string) decimal.Decimal {
	if f := GetStateFilingFee(state, entityType); f != nil {
		return f.Fee
	}
	return decimal.Zero
}

// GetStateFees devuelve todas las tarifas del estado por tipo de entidad.
func GetStateFees(state string) map[string]StateFilingFee {
	name, ok := CanonicalState(state)
	if !ok {
		return nil
	}
	src := data().fees[name].Entities
	out := make(map[string]StateFilingFee, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// GetStateResources devuelve los enlaces oficiales del estado o nil.
func GetStateResources(state string) *StateResources {
	name, ok := CanonicalState(state)
	if !ok {
		return nil
	}
	r, ok := data().resources[name]
	if !ok {
		return nil
	}
	return &r
}

// RequiredFields campos que el estado pide en el reporte anual.
func RequiredFields(state string) []string {
	name, ok := CanonicalState(state)
	if !ok {
		return nil
	}
	fields := data().fees[name].RequiredFields
	if len(fields) == 0 {
		fields = defaultRequiredFields
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// ResolveDueDate convierte el texto de vencimiento en una fecha concreta del año indicado.
//
//   - "May 15" → 15 de mayo de year.
//   - "End of anniversary month" → último día del mes de constitución (31-dic si no se conoce).
//   - Cualquier otro texto → 31 de diciembre de year.
func (f *StateFilingFee) ResolveDueDate(year int, formation *time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation("January 2", f.DueDate, loc); err == nil {
		return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
	month := time.December
	if strings.Contains(strings.ToLower(f.DueDate), "anniversary") && formation != nil {
		month = formation.Month()
	}
	// día 0 del mes siguiente = último día del mes
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

// IsExempt indica que el estado no exige reporte para ese tipo de entidad.
func (f *StateFilingFee) IsExempt() bool {
	return f.Frequency == FrequencyNone
}
