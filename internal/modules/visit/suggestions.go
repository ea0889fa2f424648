package visit

import "strings"

// A suggestion rule pairs a lowercase substring predicate on the client's
// especialidad with the pitch hint the rep sees when the visit starts.
// Rules run in order, first match wins; the final empty predicate is the
// mandatory catch-all.
type suggestionRule struct {
	contains string
	text     string
}

var suggestionRules = []suggestionRule{
	{"cardio", "Sugerir línea cardiovascular: antihipertensivos y estatinas."},
	{"pediatr", "Sugerir presentaciones pediátricas en jarabe y gotas."},
	{"gineco", "Sugerir línea de suplementos prenatales y ácido fólico."},
	{"dermato", "Sugerir línea dermatológica: cremas y protectores solares."},
	{"gastro", "Sugerir antiácidos e inhibidores de bomba de protones."},
	{"trauma", "Sugerir antiinflamatorios y relajantes musculares."},
	{"farmacia", "Revisar ofertas vigentes y bonificaciones por volumen."},
	{"", "Presentar el vademécum general y las ofertas del mes."},
}

// SuggestForSpecialty returns the pitch hint for a specialty string.
func SuggestForSpecialty(especialidad string) string {
	esp := strings.ToLower(especialidad)
	for _, r := range suggestionRules {
		if r.contains == "" || strings.Contains(esp, r.contains) {
			return r.text
		}
	}
	// Unreachable: the catch-all always matches.
	return suggestionRules[len(suggestionRules)-1].text
}
