package gltf

import (
	"fmt"

	"github.com/scenetools/glbex/scene"
)

// maxGroupDepth bounds recursion so a malformed graph that claims a cycle
// fails with an error instead of looping forever.
const maxGroupDepth = 512

// processFile walks every model under a file root. File nodes are not
// materialized in the document.
func (ctx *exportContext) processFile(file *scene.Group, rootNodes *[]uint32) error {
	if file.Kind != scene.KindFile {
		return fmt.Errorf("gltf: expected a file root; got %s node %q", file.Kind, file.Name)
	}
	for _, model := range file.Children {
		if err := ctx.processModel(model, rootNodes); err != nil {
			return err
		}
	}
	return nil
}

// processModel records every direct group child of a model as a scene root.
// Model nodes, like file nodes, are not materialized.
func (ctx *exportContext) processModel(model *scene.Group, rootNodes *[]uint32) error {
	if model.Kind != scene.KindModel {
		return fmt.Errorf("gltf: expected a model; got %s node %q", model.Kind, model.Name)
	}
	for _, group := range model.Children {
		index, err := ctx.processGroup(group, 0)
		if err != nil {
			return err
		}
		*rootNodes = append(*rootNodes, index)
	}
	return nil
}

// processGroup emits one document node per group, depth first. Children are
// appended before their parent, so a child's node index is always strictly
// smaller than its parent's and the nodes array never contains forward
// references.
func (ctx *exportContext) processGroup(group *scene.Group, depth int) (uint32, error) {
	if group.Kind != scene.KindGroup {
		return 0, fmt.Errorf("gltf: expected a group; got %s node %q", group.Kind, group.Name)
	}
	if depth >= maxGroupDepth {
		return 0, fmt.Errorf("gltf: group nesting exceeds %d levels; scene graph looks malformed", maxGroupDepth)
	}

	n := &node{Name: group.Name}

	if ctx.includeAttributes && len(group.Attributes) > 0 {
		n.Extras = make(map[string]string, len(group.Attributes))
		for _, att := range group.Attributes {
			// Duplicate keys are applied in order: last write wins.
			n.Extras[att.Key] = att.Val
		}
	}

	for _, child := range group.Children {
		index, err := ctx.processGroup(child, depth+1)
		if err != nil {
			return 0, err
		}
		n.Children = append(n.Children, index)
	}

	index := uint32(len(ctx.doc.Nodes))
	ctx.doc.Nodes = append(ctx.doc.Nodes, n)
	return index, nil
}
