package domain

import (
	"regexp"
	"strings"
	"time"
)

// DateShape identifica o formato de entrada de uma data armazenada
type DateShape int

const (
	DateShapeUnknown DateShape = iota
	DateShapeEmpty
	DateShapeNativeTimestamp
	DateShapeISODateTime
	DateShapePlainDate
	DateShapeSlashDate
)

// DateLayout é o formato canônico usado em comparações e agrupamentos
const DateLayout = "2006-01-02"

var (
	isoDateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)
	plainDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDatePattern   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	yearPattern        = regexp.MustCompile(`^\d{4}$`)

	dateLocation = time.Local
)

// timestampLike cobre timestamps nativos de stores (ex.: timestamppb.Timestamp)
type timestampLike interface {
	AsTime() time.Time
}

// SetDateLocation define o fuso usado para converter timestamps nativos em data
func SetDateLocation(loc *time.Location) {
	if loc != nil {
		dateLocation = loc
	}
}

func (s DateShape) String() string {
	switch s {
	case DateShapeEmpty:
		return "empty"
	case DateShapeNativeTimestamp:
		return "native-timestamp"
	case DateShapeISODateTime:
		return "iso-datetime"
	case DateShapePlainDate:
		return "plain-date"
	case DateShapeSlashDate:
		return "slash-date"
	default:
		return "unknown"
	}
}

// DetectDateShape inspeciona o valor e retorna o formato reconhecido
func DetectDateShape(value any) DateShape {
	switch v := value.(type) {
	case nil:
		return DateShapeEmpty
	case time.Time:
		if v.IsZero() {
			return DateShapeEmpty
		}
		return DateShapeNativeTimestamp
	case *time.Time:
		if v == nil || v.IsZero() {
			return DateShapeEmpty
		}
		return DateShapeNativeTimestamp
	case timestampLike:
		return DateShapeNativeTimestamp
	case *string:
		if v == nil {
			return DateShapeEmpty
		}
		return detectStringShape(*v)
	case string:
		return detectStringShape(v)
	default:
		return DateShapeUnknown
	}
}

func detectStringShape(s string) DateShape {
	switch {
	case s == "":
		return DateShapeEmpty
	case isoDateTimePattern.MatchString(s):
		return DateShapeISODateTime
	case plainDatePattern.MatchString(s):
		return DateShapePlainDate
	case slashDatePattern.MatchString(s):
		return DateShapeSlashDate
	default:
		return DateShapeUnknown
	}
}

// NormalizeDate converte uma data em qualquer formato suportado para YYYY-MM-DD.
// Valores vazios, desconhecidos ou datas impossíveis resultam em "".
func NormalizeDate(value any) string {
	var out string

	switch DetectDateShape(value) {
	case DateShapeNativeTimestamp:
		out = nativeToDate(value)
	case DateShapeISODateTime:
		out = stringValue(value)[:10]
	case DateShapePlainDate:
		out = stringValue(value)
	case DateShapeSlashDate:
		parts := strings.Split(stringValue(value), "/")
		out = parts[2] + "-" + parts[1] + "-" + parts[0]
	default:
		return ""
	}

	if _, err := time.Parse(DateLayout, out); err != nil {
		return ""
	}

	return out
}

// YearFromDate retorna o ano com 4 dígitos ou "" quando a data é inválida
func YearFromDate(value any) string {
	ymd := NormalizeDate(value)
	if len(ymd) < 4 {
		return ""
	}

	year := ymd[:4]
	if !yearPattern.MatchString(year) {
		return ""
	}

	return year
}

// MonthKey retorna o prefixo YYYY-MM da data normalizada
func MonthKey(value any) string {
	ymd := NormalizeDate(value)
	if len(ymd) < 7 {
		return ""
	}

	return ymd[:7]
}

func nativeToDate(value any) string {
	var t time.Time

	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		t = *v
	case timestampLike:
		t = v.AsTime()
	}

	if t.IsZero() {
		return ""
	}

	return t.In(dateLocation).Format(DateLayout)
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		return *v
	}
	return ""
}
