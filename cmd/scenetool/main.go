// scenetool is a CLI utility for inspecting walkthrough scene files
// without a window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Faultbox/walkthrough/internal/engine/bounds"
	"github.com/Faultbox/walkthrough/internal/engine/camera"
	"github.com/Faultbox/walkthrough/internal/engine/scene"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/formats"
	"github.com/Faultbox/walkthrough/pkg/math"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	err := run(os.Args[1], os.Args[2:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	switch command {
	case "info":
		return cmdInfo(args, out)
	case "boxes", "ls":
		return cmdBoxes(args, out)
	case "height", "h":
		return cmdHeight(args, out)
	case "doors":
		return cmdDoors(args, out)
	case "cull":
		return cmdCull(args, out)
	case "pick":
		return cmdPick(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("%w: unknown command %s", errUsage, command)
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `scenetool - walkthrough scene inspector

Usage:
  scenetool <command> [options] <scene> [scene...]

Commands:
  info <scene...>                   Show mesh, vertex and role counts
  boxes [-role r] <scene...>        List bounding boxes
  height <scene> <x> <z>            Ground height at a point
  doors <scene...>                  List doors and their hinges
  cull [-pos x,y,z] [-yaw d] [-pitch d] <scene...>
                                    Count meshes visible from a camera
  pick [-pos x,y,z] [-yaw d] [-pitch d] [-max m] <scene...>
                                    Name the box the camera is facing

Global options (before the scene list):
  -v                                Log loader warnings to stdout

Examples:
  scenetool info models/TJAL.gltf
  scenetool boxes -role Door models/TJAL.gltf
  scenetool height models/TJAL.gltf 1.5 -2
  scenetool cull -pos 0,1.7,-4 -yaw 90 models/TJAL.gltf`)
}

// loadScenes loads every path into one headless scene.
func loadScenes(paths []string, verbose bool) (*scene.Scene, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no scene files given", errUsage)
	}
	if verbose {
		if err := logger.Init("debug", ""); err != nil {
			return nil, err
		}
	}

	s := scene.New(scene.DefaultConfig(), nil)
	for _, p := range paths {
		if !s.Load(p) {
			return nil, fmt.Errorf("loading %s failed", p)
		}
	}
	return s, nil
}

func cmdInfo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose loader logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	for _, p := range fs.Args() {
		fmt.Fprintf(out, "File:     %s (%s)\n", p, formats.DetectEncoding(p))
	}
	s, err := loadScenes(fs.Args(), *verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	st := s.Stats()
	fmt.Fprintf(out, "Loads:    %d\n", st.Loads)
	fmt.Fprintf(out, "Meshes:   %d\n", st.Meshes)
	fmt.Fprintf(out, "Vertices: %d\n", st.Vertices)
	fmt.Fprintf(out, "Triangles: %d\n", st.Triangles())
	fmt.Fprintf(out, "Doors:    %d\n", st.Doors)
	if idx, ok := s.FloorMeshIndex(); ok {
		fmt.Fprintf(out, "Floor:    %s (mesh %d)\n", s.Meshes()[idx].Name, idx)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Boxes by role:")

	roles := make([]bounds.Role, 0, len(st.ByRole))
	for r := range st.ByRole {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	for _, r := range roles {
		fmt.Fprintf(out, "  %-10s %d\n", r, st.ByRole[r])
	}
	return nil
}

func cmdBoxes(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("boxes", flag.ContinueOnError)
	role := fs.String("role", "", "Only list boxes with this role (Generic, Floor, Stair, Door)")
	verbose := fs.Bool("v", false, "Verbose loader logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	s, err := loadScenes(fs.Args(), *verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	for i, b := range s.Boxes() {
		if *role != "" && !strings.EqualFold(b.Role.String(), *role) {
			continue
		}
		fmt.Fprintf(out, "%4d  %-24s %-8s min(%.3f, %.3f, %.3f) max(%.3f, %.3f, %.3f)\n",
			i, b.Name, b.Role,
			b.Min.X, b.Min.Y, b.Min.Z,
			b.Max.X, b.Max.Y, b.Max.Z)
	}
	return nil
}

func cmdHeight(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("height", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose loader logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("%w: scenetool height <scene> <x> <z>", errUsage)
	}

	x, err := parseFloat(fs.Arg(1))
	if err != nil {
		return err
	}
	z, err := parseFloat(fs.Arg(2))
	if err != nil {
		return err
	}

	s, err := loadScenes(fs.Args()[:1], *verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	pos := math.Vec3{X: x, Z: z}
	fmt.Fprintf(out, "height(%.3f, %.3f) = %.4f\n", x, z, s.HeightAt(x, z))
	fmt.Fprintf(out, "blocked: %t\n", s.Blocked(pos))
	return nil
}

func cmdDoors(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("doors", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose loader logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	s, err := loadScenes(fs.Args(), *verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	doors := s.Doors()
	if doors.Len() == 0 {
		fmt.Fprintln(out, "no doors")
		return nil
	}
	for i := 0; i < doors.Len(); i++ {
		d := doors.At(i)
		side := "high"
		if d.HingeLow {
			side = "low"
		}
		fmt.Fprintf(out, "%-24s mesh %-4d hinge %-4s at (%.3f, %.3f, %.3f)\n",
			d.Name, d.MeshIndex, side, d.Hinge.X, d.Hinge.Y, d.Hinge.Z)
	}
	return nil
}

// viewFlags registers the camera pose flags shared by cull and pick.
func viewFlags(fs *flag.FlagSet) func() (camera.Settings, error) {
	def := camera.DefaultSettings()
	posFlag := fs.String("pos", "", "Camera position x,y,z (default: walkthrough start)")
	yaw := fs.Float64("yaw", float64(def.Yaw), "Yaw in degrees")
	pitch := fs.Float64("pitch", float64(def.Pitch), "Pitch in degrees")

	return func() (camera.Settings, error) {
		settings := def
		if *posFlag != "" {
			p, err := parseVec3(*posFlag)
			if err != nil {
				return settings, err
			}
			settings.Position = p
		}
		settings.Yaw = float32(*yaw)
		settings.Pitch = float32(*pitch)
		return settings, nil
	}
}

func cmdCull(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("cull", flag.ContinueOnError)
	view := viewFlags(fs)
	aspect := fs.Float64("aspect", 4.0/3.0, "Viewport aspect ratio")
	list := fs.Bool("list", false, "Print the visible mesh names")
	verbose := fs.Bool("v", false, "Verbose loader logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	settings, err := view()
	if err != nil {
		return err
	}

	s, err := loadScenes(fs.Args(), *verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	cam := camera.New(settings)
	visible := s.Cull(cam.ViewProjection(float32(*aspect)))
	fmt.Fprintf(out, "visible %d of %d meshes\n", len(visible), len(s.Meshes()))
	if *list {
		meshes := s.Meshes()
		for _, i := range visible {
			fmt.Fprintf(out, "  %s\n", meshes[i].Name)
		}
	}
	return nil
}

func cmdPick(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	view := viewFlags(fs)
	maxDist := fs.Float64("max", 50, "Maximum distance")
	verbose := fs.Bool("v", false, "Verbose loader logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	settings, err := view()
	if err != nil {
		return err
	}

	s, err := loadScenes(fs.Args(), *verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	cam := camera.New(settings)
	box, dist, ok := s.Pick(cam.Position, cam.Front(), float32(*maxDist))
	if !ok {
		fmt.Fprintln(out, "nothing in view")
		return nil
	}
	fmt.Fprintf(out, "%s (%s) at %.3f\n", box.Name, box.Role, dist)
	return nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", errUsage, s)
	}
	return float32(v), nil
}

func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("%w: position must be x,y,z, got %q", errUsage, s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := parseFloat(p)
		if err != nil {
			return math.Vec3{}, err
		}
		v[i] = f
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}
