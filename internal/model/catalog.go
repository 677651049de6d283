// internal/model/catalog.go
package model

import "time"

// Priority はタスクの優先度です。
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Label returns the Spanish label used in reports.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "Alta"
	case PriorityMedium:
		return "Media"
	case PriorityLow:
		return "Baja"
	default:
		return ""
	}
}

// Task is one checklist item. Tasks are never deleted, only reset to incomplete.
type Task struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	Completed      bool       `json:"completed"`
	Notes          string     `json:"notes,omitempty"`
	Photos         []string   `json:"photos,omitempty"`
	Priority       Priority   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	StartTime      *time.Time `json:"startTime,omitempty"`
	CompletionTime *time.Time `json:"completionTime,omitempty"`
}

// Phase groups tasks of the training session (before/during/after).
type Phase struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
	Tasks []Task `json:"tasks"`
}

// Clone returns a deep copy of the phase.
func (p Phase) Clone() Phase {
	out := p
	out.Tasks = make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		out.Tasks[i] = t.clone()
	}
	return out
}

func (t Task) clone() Task {
	out := t
	if t.Photos != nil {
		out.Photos = append([]string(nil), t.Photos...)
	}
	if t.StartTime != nil {
		st := *t.StartTime
		out.StartTime = &st
	}
	if t.CompletionTime != nil {
		ct := *t.CompletionTime
		out.CompletionTime = &ct
	}
	return out
}

// Catalog は固定のフェーズ/タスク定義です。生成後は変更されません。
type Catalog struct {
	phases []Phase
}

// NewCatalog builds a catalog from phase definitions. Completion state is stripped.
func NewCatalog(phases []Phase) Catalog {
	c := Catalog{phases: make([]Phase, len(phases))}
	for i, p := range phases {
		cp := p.Clone()
		for j := range cp.Tasks {
			cp.Tasks[j] = Task{ID: cp.Tasks[j].ID, Text: cp.Tasks[j].Text}
		}
		c.phases[i] = cp
	}
	return c
}

// Phases returns a fresh copy of the catalog with every task incomplete.
func (c Catalog) Phases() []Phase {
	out := make([]Phase, len(c.phases))
	for i, p := range c.phases {
		out[i] = p.Clone()
	}
	return out
}

// TotalTasks returns the number of tasks across all phases.
func (c Catalog) TotalTasks() int {
	n := 0
	for _, p := range c.phases {
		n += len(p.Tasks)
	}
	return n
}

// PhaseColor looks up the presentation color of a phase id.
func (c Catalog) PhaseColor(phaseID string) string {
	for _, p := range c.phases {
		if p.ID == phaseID {
			return p.Color
		}
	}
	return ""
}

// DefaultCatalog は「Catalizador administrativo EFI」のチェックリストです。
func DefaultCatalog() Catalog {
	return NewCatalog([]Phase{
		{
			ID:    "antes",
			Title: "Antes de la Formación",
			Color: "green",
			Tasks: []Task{
				{ID: "a1", Text: "Reserva del espacio físico o virtual (Meet)"},
				{ID: "a2", Text: "Definir participación de las áreas en la formación"},
				{ID: "a3", Text: "Verificar el aseo y mantenimiento de la sala"},
				{ID: "a4", Text: "Verificar cámara, micrófono, televisor o videobeam"},
				{ID: "a5", Text: "Crear ficha de calificación individual"},
				{ID: "a6", Text: "Confirmar disponibilidad del formador y asistentes"},
				{ID: "a7", Text: "Enviar invitación formal con agenda, enlace (Grupo de whatsapp)"},
				{ID: "a8", Text: "Validar lista de asistencia previa y teléfonos de contacto"},
			},
		},
		{
			ID:    "durante",
			Title: "Durante la Formación",
			Color: "blue",
			Tasks: []Task{
				{ID: "d1", Text: "Verificar asistencia puntual (Llamar si no se conectan)"},
				{ID: "d2", Text: "Garantizar la entrega del colaborador (nuevo) al equipo de formación"},
				{ID: "d3", Text: "Iniciar sesión (temas, reglas, responsables, mensaje inspirador)"},
				{ID: "d4", Text: "Enviar invitación del día siguiente"},
				{ID: "d5", Text: "Dejar el espacio físico limpio y ordenado"},
				{ID: "d6", Text: "Entregar material de conexión usado a tecnología"},
			},
		},
		{
			ID:    "despues",
			Title: "Después de la Formación",
			Color: "orange",
			Tasks: []Task{
				{ID: "p1", Text: "Actualizar formulario de evaluación y base de ingresos 2025"},
				{ID: "p2", Text: "Acompañar ingreso del colaborador al área correspondiente"},
				{ID: "p3", Text: "Analizar retroalimentación para mejorar sesiones"},
			},
		},
	})
}
