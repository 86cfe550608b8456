package shape

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpinc/go3mf"
)

// LoadMesh3MF reads every mesh object in a 3MF file into a single Mesh.
func LoadMesh3MF(path string) (*Mesh, error) {
	var model go3mf.Model
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := r.Decode(&model); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	mesh := &Mesh{}
	for _, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok || obj.Mesh == nil {
			continue
		}
		base := len(mesh.Vertices)
		for _, v := range obj.Mesh.Vertices.Vertex {
			mesh.Vertices = append(mesh.Vertices, V(float64(v.X()), float64(v.Y()), float64(v.Z())))
		}
		for _, t := range obj.Mesh.Triangles.Triangle {
			mesh.Faces = append(mesh.Faces, [3]int{
				base + int(t.V1),
				base + int(t.V2),
				base + int(t.V3),
			})
		}
	}
	if mesh.NumVertices() == 0 {
		return nil, fmt.Errorf("%s contains no mesh data", path)
	}
	return mesh, nil
}

// LoadCorpus walks a models directory laid out as one subdirectory per class
// and loads every 3MF file inside. The shape name is the file name without
// extension.
func LoadCorpus(root string) ([]CorpusMesh, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading models directory: %w", err)
	}

	var meshes []CorpusMesh
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		class := entry.Name()
		files, err := os.ReadDir(filepath.Join(root, class))
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if file.IsDir() || !strings.EqualFold(filepath.Ext(file.Name()), ".3mf") {
				continue
			}
			mesh, err := LoadMesh3MF(filepath.Join(root, class, file.Name()))
			if err != nil {
				return nil, err
			}
			name := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
			meshes = append(meshes, CorpusMesh{Mesh: mesh, Class: class, Name: name})
		}
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("no 3MF models found under %s", root)
	}
	return meshes, nil
}
