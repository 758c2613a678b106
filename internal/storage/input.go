package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/vfpsim/internal/grid"
)

// LoadPNG reads a square 16-bit grayscale start distribution. The
// image side must equal the configured grid size.
func LoadPNG(path string, n int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("%s: image is %dx%d, want square", path, b.Dx(), b.Dy())
	}
	if b.Dx() != n {
		return nil, fmt.Errorf("%s: image side %d does not match grid size %d", path, b.Dx(), n)
	}

	data := make([]float64, n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			// rows are stored top-down, the p axis bottom-up
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+n-y-1).RGBA()
			data[x*n+y] = float64(r) / 65535.0
		}
	}
	return data, nil
}

// WritePNG stores the mesh as a square 16-bit grayscale image scaled
// to the density maximum.
func WritePNG(path string, mesh *grid.PhaseSpace) error {
	n := mesh.NQ()
	maxVal := mesh.Max()
	if maxVal <= 0 {
		maxVal = 1
	}
	img := image.NewGray16(image.Rect(0, 0, n, n))
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			v := mesh.At(x, y) / maxVal * 65535
			if v < 0 {
				v = 0
			}
			img.SetGray16(x, n-y-1, color.Gray16{Y: uint16(v)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// LoadText bins whitespace-separated (q, p) pairs onto the mesh.
func LoadText(path string, mesh *grid.PhaseSpace) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	qa, pa := mesh.QAxis(), mesh.PAxis()
	data := mesh.Data()
	for i := range data {
		data[i] = 0
	}

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return fmt.Errorf("%s:%d: want (q, p) pair", path, line)
		}
		q, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		p, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		i := int(qa.Index(q) + 0.5)
		j := int(pa.Index(p) + 0.5)
		if i < 0 || i >= mesh.NQ() || j < 0 || j >= mesh.NP() {
			continue
		}
		data[i*mesh.NP()+j]++
	}
	if err := sc.Err(); err != nil {
		return err
	}

	mesh.UpdateXProjection()
	if mesh.Integral() == 0 {
		return fmt.Errorf("%s: no particles inside the grid", path)
	}
	mesh.Normalize()
	return nil
}

// LoadRunFrame reads a stored phase-space frame from a run directory.
// A negative step selects the latest frame.
func LoadRunFrame(dir string, step, n int) ([]float64, error) {
	name := fmt.Sprintf("step_%06d.bin", step)
	if step < 0 {
		frames, err := filepath.Glob(filepath.Join(dir, "phasespace", "step_*.bin"))
		if err != nil || len(frames) == 0 {
			return nil, fmt.Errorf("%s: no phase-space frames", dir)
		}
		sort.Strings(frames)
		name = filepath.Base(frames[len(frames)-1])
	}

	f, err := os.Open(filepath.Join(dir, "phasespace", name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() != int64(n*n*8) {
		return nil, fmt.Errorf("%s: frame holds %d samples, want %dx%d",
			name, st.Size()/8, n, n)
	}
	data := make([]float64, n*n)
	if err := binary.Read(f, binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadTracers reads initial tracer positions as whitespace-separated
// (q, p) pairs.
func LoadTracers(path string) ([]grid.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []grid.Position
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		q, err1 := strconv.ParseFloat(fields[0], 64)
		p, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, grid.Position{Q: q, P: p})
	}
	return out, sc.Err()
}

// ListRuns returns the parameter records of all run directories under
// base, newest first.
func ListRuns(base string) ([]RunInfo, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunInfo{}, nil
		}
		return nil, err
	}

	runs := make([]RunInfo, 0)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(base, e.Name(), "info.json"))
		if err != nil {
			continue
		}
		var info RunInfo
		if err := json.Unmarshal(data, &info); err != nil {
			continue
		}
		runs = append(runs, info)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// LoadSeries reads a CSV written by RunWriter.writeRow and returns
// the last row's values (for plotting).
func LoadSeries(path string) (step int, values []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	var last []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		if t := strings.TrimSpace(sc.Text()); t != "" {
			last = strings.Split(t, ",")
		}
	}
	if err := sc.Err(); err != nil {
		return 0, nil, err
	}
	if len(last) < 2 {
		return 0, nil, fmt.Errorf("%s: no data rows", path)
	}
	step, err = strconv.Atoi(last[0])
	if err != nil {
		return 0, nil, err
	}
	values = make([]float64, 0, len(last)-1)
	for _, s := range last[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, nil, err
		}
		values = append(values, v)
	}
	return step, values, nil
}

// LoadColumn reads one column of a headered CSV (for CSR power and
// moment histories).
func LoadColumn(path string, col int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []float64
	sc := bufio.NewScanner(f)
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		fields := strings.Split(strings.TrimSpace(sc.Text()), ",")
		if col >= len(fields) {
			continue
		}
		v, err := strconv.ParseFloat(fields[col], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, sc.Err()
}
