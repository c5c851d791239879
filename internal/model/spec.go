package model

type Document struct {
	Version    string
	Info       Info
	Paths      []*Path
	Components *Components
}

type Info struct {
	Title       string
	Description string
	Version     string
}

type Path struct {
	Path       string
	Parameters []*Parameter
	Operations []*Operation
}

// Operations returns every operation of the document in path order.
func (d *Document) Operations() []*Operation {
	var ops []*Operation
	for _, p := range d.Paths {
		ops = append(ops, p.Operations...)
	}
	return ops
}

// Operation finds the operation bound to path and method.
func (d *Document) Operation(path string, method Method) (*Operation, bool) {
	for _, p := range d.Paths {
		if p.Path != path {
			continue
		}
		for _, op := range p.Operations {
			if op.Method == method {
				return op, true
			}
		}
	}
	return nil, false
}

// EnsureComponents creates every component section that is missing.
func (d *Document) EnsureComponents() {
	if d.Components == nil {
		d.Components = &Components{}
	}
	d.Components.ensure()
}
