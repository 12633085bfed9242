package analyzer

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// collectModuleItems walks the top-level items of a parsed module and
// records import sources and export-name tokens. The shape set is finite
// (import, export-decl, export-named, export-default, export-all), so the
// walk is a single explicit match rather than a visitor hierarchy.
func collectModuleItems(root *ts.Node, source []byte, imports, exports map[string]struct{}) {
	for i := uint(0); i < uint(root.NamedChildCount()); i++ {
		item := root.NamedChild(i)
		switch item.Kind() {
		case "import_statement":
			if src := item.ChildByFieldName("source"); src != nil {
				imports[stringValue(src, source)] = struct{}{}
			}
		case "export_statement":
			collectExport(item, source, exports)
		}
	}
}

// collectExport dispatches over the export statement shapes.
func collectExport(node *ts.Node, source []byte, exports map[string]struct{}) {
	// export * as ns from "mod"
	if ns := childOfKind(node, "namespace_export"); ns != nil {
		if name := lastNamedChild(ns); name != nil {
			exports["*as:"+stringValue(name, source)] = struct{}{}
		}
		return
	}

	// export * from "mod"
	if childOfKind(node, "*") != nil {
		if src := node.ChildByFieldName("source"); src != nil {
			exports["*from:"+stringValue(src, source)] = struct{}{}
		}
		return
	}

	// export { a, b as c }, export { default } from "mod"
	if clause := childOfKind(node, "export_clause"); clause != nil {
		collectExportClause(clause, source, exports)
		return
	}

	isDefault := childOfKind(node, "default") != nil

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		if isDefault {
			collectDefaultDeclaration(decl, source, exports)
		} else {
			collectDeclaration(decl, source, exports)
		}
		return
	}

	// export default <expression>
	if isDefault && node.ChildByFieldName("value") != nil {
		exports["default"] = struct{}{}
	}
}

// collectExportClause records each specifier's exported name: the alias
// when present, else the original. String-literal export names are added
// with their quotes stripped, so `export { x as "y" }` records "y" and
// `export { default }` records the literal "default".
func collectExportClause(clause *ts.Node, source []byte, exports map[string]struct{}) {
	for i := uint(0); i < uint(clause.NamedChildCount()); i++ {
		spec := clause.NamedChild(i)
		if spec.Kind() != "export_specifier" {
			continue
		}
		name := spec.ChildByFieldName("alias")
		if name == nil {
			name = spec.ChildByFieldName("name")
		}
		if name != nil {
			exports[stringValue(name, source)] = struct{}{}
		}
	}
}

// collectDeclaration handles `export <decl>` for class, function and
// variable declarations. Other declaration kinds (interfaces, type
// aliases, enums) contribute nothing.
func collectDeclaration(decl *ts.Node, source []byte, exports map[string]struct{}) {
	switch decl.Kind() {
	case "class_declaration", "abstract_class_declaration",
		"function_declaration", "generator_function_declaration":
		if name := decl.ChildByFieldName("name"); name != nil {
			exports[name.Utf8Text(source)] = struct{}{}
		}
	case "lexical_declaration", "variable_declaration":
		for i := uint(0); i < uint(decl.NamedChildCount()); i++ {
			declarator := decl.NamedChild(i)
			if declarator.Kind() != "variable_declarator" {
				continue
			}
			if name := declarator.ChildByFieldName("name"); name != nil {
				collectPattern(name, source, exports)
			}
		}
	}
}

// collectDefaultDeclaration handles `export default <decl>`: the declared
// identifier when the class/function is named, else the literal "default".
// Anonymous default classes and functions parse as expressions and are
// handled by the caller's expression branch.
func collectDefaultDeclaration(decl *ts.Node, source []byte, exports map[string]struct{}) {
	switch decl.Kind() {
	case "class_declaration", "function_declaration", "generator_function_declaration":
		if name := decl.ChildByFieldName("name"); name != nil {
			exports[name.Utf8Text(source)] = struct{}{}
			return
		}
	}
	exports["default"] = struct{}{}
}

// collectPattern flattens a binding pattern into its bound names.
//
// Array destructuring recurses into each element; object destructuring
// records each key-value property's key identifier and each shorthand
// property (with or without default); rest patterns and defaulted array
// elements are ignored.
func collectPattern(pat *ts.Node, source []byte, exports map[string]struct{}) {
	switch pat.Kind() {
	case "identifier":
		exports[pat.Utf8Text(source)] = struct{}{}
	case "array_pattern":
		for i := uint(0); i < uint(pat.NamedChildCount()); i++ {
			collectPattern(pat.NamedChild(i), source, exports)
		}
	case "object_pattern":
		for i := uint(0); i < uint(pat.NamedChildCount()); i++ {
			prop := pat.NamedChild(i)
			switch prop.Kind() {
			case "pair_pattern":
				if key := prop.ChildByFieldName("key"); key != nil && key.Kind() == "property_identifier" {
					exports[key.Utf8Text(source)] = struct{}{}
				}
			case "shorthand_property_identifier_pattern":
				exports[prop.Utf8Text(source)] = struct{}{}
			case "object_assignment_pattern":
				if left := prop.ChildByFieldName("left"); left != nil && left.Kind() == "shorthand_property_identifier_pattern" {
					exports[left.Utf8Text(source)] = struct{}{}
				}
			}
		}
	}
}

// childOfKind returns the first direct child (named or not) of the given
// kind.
func childOfKind(node *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if child := node.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

func lastNamedChild(node *ts.Node) *ts.Node {
	n := uint(node.NamedChildCount())
	if n == 0 {
		return nil
	}
	return node.NamedChild(n - 1)
}

// stringValue returns a node's source text with surrounding quotes
// stripped, covering both identifier and string-literal nodes.
func stringValue(node *ts.Node, source []byte) string {
	return strings.Trim(node.Utf8Text(source), "\"'")
}
