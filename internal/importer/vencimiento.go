package importer

import (
	"strings"
	"time"
)

// ReglaVencimiento assigns a shelf life in days to products whose text contains Palabra.
type ReglaVencimiento struct {
	Palabra string
	Dias    int
}

// ReglasVencimiento is scanned in order and the first hit wins, so specific
// words (QUESILLO) must precede the general ones they contain (QUESO).
var ReglasVencimiento = []ReglaVencimiento{
	{"QUESILLO", 10},
	{"QUESO", 30},
	{"YOGHURT", 25},
	{"YOGURT", 25},
	{"MANTEQUILLA", 60},
	{"JAMON", 15},
	{"SALAME", 30},
	{"VIENESA", 20},
	{"POLLO", 5},
	{"CARNE", 5},
	{"PESCADO", 3},
	{"HUEVO", 30},
	{"LECHUGA", 7},
	{"TOMATE", 10},
	{"PLATANO", 7},
	{"MANZANA", 30},
	{"LACTEO", 15},
	{"FIAMBRE", 15},
	{"CECINA", 20},
	{"CARNICERIA", 5},
	{"PANADERIA", 3},
	{"FRUTA", 10},
	{"VERDURA", 7},
}

// Clasificador derives a shelf life from free text.
type Clasificador struct {
	reglas []ReglaVencimiento
}

func NewClasificador(reglas []ReglaVencimiento) *Clasificador {
	norm := make([]ReglaVencimiento, 0, len(reglas))
	for _, r := range reglas {
		if p := NormalizarClave(r.Palabra); p != "" && r.Dias > 0 {
			norm = append(norm, ReglaVencimiento{Palabra: p, Dias: r.Dias})
		}
	}
	return &Clasificador{reglas: norm}
}

// DiasVida returns the days of the first rule whose keyword appears in texto, or 0.
func (c *Clasificador) DiasVida(texto string) int {
	t := NormalizarClave(texto)
	if t == "" {
		return 0
	}
	for _, r := range c.reglas {
		if strings.Contains(t, r.Palabra) {
			return r.Dias
		}
	}
	return 0
}

// FechaVencimiento adds dias calendar days to base and formats it as YYYY-MM-DD.
func FechaVencimiento(base time.Time, dias int) string {
	return base.AddDate(0, 0, dias).Format(time.DateOnly)
}
