package ast

import "c0/internal/ident"

// Sigma is the global environment: every type and class declaration the
// compilation can see, keyed by PathKey. It is populated in two phases
// (built-ins first, then user declarations from every module) and is
// read-only once resolution starts; the modal/class engine's caches
// rely on that.
type Sigma struct {
	Types   map[string]*TypeDecl
	Classes map[string]*ClassDecl
	Modules []Module
}

// TypeDecl is a Σ entry for a nominal type: the declaring module plus
// the item (RecordItem, EnumItem, ModalItem, or TypeAliasItem).
type TypeDecl struct {
	Module  ident.Path
	Name    string
	Item    Item
	Builtin bool
}

// ClassDecl is a Σ entry for a class declaration.
type ClassDecl struct {
	Module  ident.Path
	Name    string
	Item    *ClassItem
	Builtin bool
}

// NewSigma returns an empty environment.
func NewSigma() *Sigma {
	return &Sigma{
		Types:   map[string]*TypeDecl{},
		Classes: map[string]*ClassDecl{},
	}
}

// RegisterType installs a type declaration. The first registration of a
// key wins; a second registration of the same key is ignored (the
// collector has already reported the duplicate).
func (s *Sigma) RegisterType(d *TypeDecl) {
	key := d.Module.Join(d.Name).PathKey()
	if _, ok := s.Types[key]; ok {
		return
	}
	s.Types[key] = d
}

// RegisterClass installs a class declaration, first registration wins.
func (s *Sigma) RegisterClass(d *ClassDecl) {
	key := d.Module.Join(d.Name).PathKey()
	if _, ok := s.Classes[key]; ok {
		return
	}
	s.Classes[key] = d
}

// LookupType finds a type declaration by qualified name.
func (s *Sigma) LookupType(q ident.QualifiedName) (*TypeDecl, bool) {
	d, ok := s.Types[q.PathKey()]
	return d, ok
}

// LookupClass finds a class declaration by qualified name.
func (s *Sigma) LookupClass(q ident.QualifiedName) (*ClassDecl, bool) {
	d, ok := s.Classes[q.PathKey()]
	return d, ok
}

// LookupModal finds a modal declaration by qualified name; ok is false
// when the key resolves to a non-modal type.
func (s *Sigma) LookupModal(q ident.QualifiedName) (*ModalItem, bool) {
	d, ok := s.Types[q.PathKey()]
	if !ok {
		return nil, false
	}
	m, ok := d.Item.(*ModalItem)
	return m, ok
}

// PopulateUser registers every type and class declared by the given
// modules. Built-ins must already be installed so user declarations can
// never displace them.
func (s *Sigma) PopulateUser(modules []Module) {
	s.Modules = append(s.Modules, modules...)
	for _, m := range modules {
		for _, item := range m.Items {
			switch it := item.(type) {
			case *RecordItem, *EnumItem, *ModalItem, *TypeAliasItem:
				s.RegisterType(&TypeDecl{Module: m.Path, Name: item.ItemName(), Item: it})
			case *ClassItem:
				s.RegisterClass(&ClassDecl{Module: m.Path, Name: it.Name, Item: it})
			}
		}
	}
}
