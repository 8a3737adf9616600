package revenue

import "fmt"

// MonthNames are the display names of the twelve months, January first.
type MonthNames [12]string

// DefaultLocale is the locale the dashboard renders month names in.
const DefaultLocale = "es-CL"

var monthNames = map[string]MonthNames{
	"es-CL": {"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	"en": {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
}

// MonthNamesFor returns the month names of a supported locale.
func MonthNamesFor(locale string) (MonthNames, error) {
	names, ok := monthNames[locale]
	if !ok {
		return MonthNames{}, fmt.Errorf("unsupported locale %q", locale)
	}
	return names, nil
}
