package container

import "errors"

// WalkFunc is called for each object during traversal.
// path is the full path to the object and typ its type.
// err is any error encountered listing or statting the object.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(path string, typ ObjectType, err error) error

// ErrStopWalk can be returned from a WalkFunc to stop walking without an error.
var ErrStopWalk = errors.New("walk stopped")

// Walk traverses every object below and including root, parents before
// children and siblings in lexical order.
//
// Example:
//
//	container.Walk(c, "/", func(path string, typ container.ObjectType, err error) error {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(typ, path)
//	    return nil
//	})
func Walk(c Container, root string, fn WalkFunc) error {
	root = CleanPath(root)
	typ, err := c.Stat(root)
	if err != nil {
		err = fn(root, 0, err)
	} else {
		err = walk(c, root, typ, fn)
	}
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func walk(c Container, path string, typ ObjectType, fn WalkFunc) error {
	if err := fn(path, typ, nil); err != nil {
		return err
	}
	if typ != TypeGroup {
		return nil
	}

	members, err := c.Members(path)
	if err != nil {
		return fn(path, typ, err)
	}

	for _, name := range members {
		child := JoinPath(path, name)
		childType, err := c.Stat(child)
		if err != nil {
			if err := fn(child, 0, err); err != nil {
				return err
			}
			continue
		}
		if err := walk(c, child, childType, fn); err != nil {
			return err
		}
	}
	return nil
}
