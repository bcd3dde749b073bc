package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/flyboysam/SRG.Dashboard/internal/model"
)

// Report is the one-shot result of inspecting a telemetry file.
type Report struct {
	Path       string         `json:"path"`
	Status     string         `json:"status"`
	AgeSeconds int64          `json:"age_seconds"`
	MS5611     *model.MS5611  `json:"ms5611,omitempty"`
	MPU6050    *model.MPU6050 `json:"mpu6050,omitempty"`
	Temp       *float64       `json:"tmp,omitempty"`
}

// Renderer writes an inspection report to an output stream.
type Renderer interface {
	Render(r Report) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")) // cyan
	styleLive   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)  // green
	styleStale  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true) // yellow
	styleNoFile = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red
	styleAbsent = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
)

// TextRenderer prints a human-readable report with status-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer writing colorized text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (t *TextRenderer) Render(r Report) error {
	fmt.Fprintln(t.w, styleHeader.Render("Telemetry: "+r.Path))
	fmt.Fprintf(t.w, "%s %s (age %ds)\n", styleLabel.Render("status:"), styleStatus(r.Status), r.AgeSeconds)

	if r.MS5611 != nil {
		fmt.Fprintf(t.w, "%s temp=%.2f°C pressure=%.2fhPa altitude=%.1fm\n",
			styleLabel.Render("MS5611: "), r.MS5611.Temp, r.MS5611.Pressure, r.MS5611.Altitude)
	} else {
		fmt.Fprintf(t.w, "%s %s\n", styleLabel.Render("MS5611: "), styleAbsent.Render("no reading"))
	}

	if r.MPU6050 != nil {
		fmt.Fprintf(t.w, "%s gyro=(%.2f %.2f %.2f) accel=(%.2f %.2f %.2f)\n",
			styleLabel.Render("MPU6050:"),
			r.MPU6050.GX, r.MPU6050.GY, r.MPU6050.GZ,
			r.MPU6050.AX, r.MPU6050.AY, r.MPU6050.AZ)
	} else {
		fmt.Fprintf(t.w, "%s %s\n", styleLabel.Render("MPU6050:"), styleAbsent.Render("no reading"))
	}

	if r.Temp != nil {
		fmt.Fprintf(t.w, "%s %.2f°C\n", styleLabel.Render("TMP:    "), *r.Temp)
	} else {
		fmt.Fprintf(t.w, "%s %s\n", styleLabel.Render("TMP:    "), styleAbsent.Render("no reading"))
	}

	return nil
}

func styleStatus(status string) string {
	switch status {
	case model.StatusLive:
		return styleLive.Render(status)
	case model.StatusStale:
		return styleStale.Render(status)
	default:
		return styleNoFile.Render(status)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints the report as a single JSON object.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer writing JSON to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONRenderer{enc: enc}
}

func (r *JSONRenderer) Render(rep Report) error {
	return r.enc.Encode(rep)
}
