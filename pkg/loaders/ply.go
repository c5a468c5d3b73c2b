package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian" or "ascii"
	Elements []PLYElement
}

// PLYElement is one element block declared in the header
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string // Scalar type, or the element type of a list
	IsList   bool
	ListType string // For list properties, the type of the count
}

// LoadPLY loads the vertex positions and faces of a PLY file. Polygons
// with more than three vertices are split into a triangle fan.
func LoadPLY(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	return ParsePLY(bufio.NewReader(file))
}

// ParsePLY parses PLY content from a buffered reader
func ParsePLY(reader *bufio.Reader) (*MeshData, error) {
	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = &plyASCIIReader{scanner: bufio.NewScanner(reader)}
	case "binary_little_endian":
		values = &plyBinaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	mesh := &MeshData{}
	maxList := header.listLimit()
	for _, element := range header.Elements {
		if err := readPLYElement(values, element, maxList, mesh); err != nil {
			return nil, fmt.Errorf("failed to read PLY %s data: %w", element.Name, err)
		}
	}

	for _, index := range mesh.Faces {
		if index < 0 || index >= len(mesh.Vertices) {
			return nil, fmt.Errorf("face references vertex %d, file has %d", index, len(mesh.Vertices))
		}
	}
	return mesh, nil
}

// parsePLYHeader reads the header up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var current *PLYElement

	for lineNumber := 1; ; lineNumber++ {
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, fmt.Errorf("missing end_header: %w", err)
		}
		parts := strings.Fields(line)

		if lineNumber == 1 {
			if len(parts) != 1 || parts[0] != "ply" {
				return nil, fmt.Errorf("not a PLY file")
			}
			continue
		}
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("missing format line")
			}
			return header, nil
		case "format":
			if len(parts) < 2 {
				return nil, fmt.Errorf("line %d: invalid format line", lineNumber)
			}
			header.Format = parts[1]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("line %d: invalid element definition", lineNumber)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("line %d: invalid element count: %s", lineNumber, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
			current = &header.Elements[len(header.Elements)-1]
		case "property":
			if current == nil {
				return nil, fmt.Errorf("line %d: property outside of an element", lineNumber)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			current.Properties = append(current.Properties, prop)
		default:
			return nil, fmt.Errorf("line %d: unknown header keyword %q", lineNumber, parts[0])
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 1 && parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		if plyTypeSize(parts[1]) == 0 || plyTypeSize(parts[2]) == 0 {
			return PLYProperty{}, fmt.Errorf("unknown list property type in %q", strings.Join(parts, " "))
		}
		return PLYProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}, nil
	}

	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}
	if plyTypeSize(parts[0]) == 0 {
		return PLYProperty{}, fmt.Errorf("unknown property type %q", parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// plyTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func plyTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// minPLYListLimit is the list length always accepted, even in files that
// declare fewer vertices
const minPLYListLimit = 16

// listLimit returns the longest list the file may contain. A polygon never
// needs more corners than the file declares vertices.
func (h *PLYHeader) listLimit() int {
	limit := minPLYListLimit
	for _, element := range h.Elements {
		if element.Name == "vertex" && element.Count > limit {
			limit = element.Count
		}
	}
	return limit
}

// readPLYElement reads every instance of an element. Vertex x/y/z and face
// index lists are kept; all other data is read and discarded.
func readPLYElement(values plyValueReader, element PLYElement, maxList int, mesh *MeshData) error {
	for i := 0; i < element.Count; i++ {
		var position [3]float64
		for _, prop := range element.Properties {
			if prop.IsList {
				count, err := values.next(prop.ListType)
				if err != nil {
					return err
				}
				if !(count >= 0) || count != math.Trunc(count) {
					return fmt.Errorf("invalid list length %v", count)
				}
				if count > float64(maxList) {
					return fmt.Errorf("list length %v exceeds limit %d", count, maxList)
				}
				list := make([]int, int(count))
				for j := range list {
					v, err := values.next(prop.Type)
					if err != nil {
						return err
					}
					list[j] = int(v)
				}
				if element.Name == "face" && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
					for j := 1; j+1 < len(list); j++ {
						mesh.Faces = append(mesh.Faces, list[0], list[j], list[j+1])
					}
				}
				continue
			}

			v, err := values.next(prop.Type)
			if err != nil {
				return err
			}
			if element.Name == "vertex" {
				switch prop.Name {
				case "x":
					position[0] = v
				case "y":
					position[1] = v
				case "z":
					position[2] = v
				}
			}
		}

		if element.Name == "vertex" {
			mesh.Vertices = append(mesh.Vertices, core.NewVec3(position[0], position[1], position[2]))
		}
	}
	return nil
}

// plyValueReader yields the scalar values of the body one at a time
type plyValueReader interface {
	next(dataType string) (float64, error)
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
	fields  []string
}

func (r *plyASCIIReader) next(dataType string) (float64, error) {
	for len(r.fields) == 0 {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		r.fields = strings.Fields(r.scanner.Text())
	}

	field := r.fields[0]
	r.fields = r.fields[1:]
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, field)
	}
	return v, nil
}

type plyBinaryReader struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (r *plyBinaryReader) next(dataType string) (float64, error) {
	size := plyTypeSize(dataType)
	b := r.buf[:size]
	if _, err := io.ReadFull(r.reader, b); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(r.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(r.order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(r.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(r.order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(r.order.Uint32(b))), nil
	default:
		return math.Float64frombits(r.order.Uint64(b)), nil
	}
}
