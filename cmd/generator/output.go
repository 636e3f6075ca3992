package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/a-peyrard/ioc/set"
	"github.com/a-peyrard/ioc/slices"
)

const iocImportPath = "github.com/a-peyrard/ioc"

var errNoRegistry = errors.New("no struct embedding ioc.EmptyRegistry found in the target file")

var registryTemplate = template.Must(template.New("registry").Funcs(template.FuncMap{
	"names": func(names []string) string {
		return strings.Join(slices.Map(names, strconv.Quote), ", ")
	},
}).Parse(`// Code generated by ioc generator. DO NOT EDIT.

package {{ .PackageName }}

import (
{{- range .Imports }}
	{{ .Alias }} "{{ .Path }}"
{{- end }}
)

func ({{ .StructName }}) Register(m *ioc.Markers) {
{{- range .Types }}
{{- if .Inject }}
	m.Inject(ioc.TypeOf[{{ .FQN }}](), {{ names .Inject }})
{{- end }}
{{- if .Declare }}
	m.Declare(ioc.TypeOf[{{ .FQN }}](), {{ names .Declare }})
{{- end }}
{{- end }}
}
`))

type (
	importDefinition struct {
		Alias string
		Path  string
	}

	typeDefinition struct {
		FQN     string
		Inject  []string
		Declare []string
	}

	registryFile struct {
		PackageName string
		StructName  string
		Imports     []importDefinition
		Types       []typeDefinition
	}
)

func render(registry *RegistryDefinition, markers []TypeMarkers) ([]byte, error) {
	// "m" is the receiver of the generated method
	aliases := set.NewWithValues(iocPackageName, "m")
	importWithAlias := map[string]string{iocImportPath: iocPackageName}

	paths := set.New[string]()
	for _, m := range markers {
		if m.ImportPath != registry.ImportPath {
			paths.Add(m.ImportPath)
		}
	}
	sortedPaths := paths.ToSlice()
	sort.Strings(sortedPaths)
	for _, path := range sortedPaths {
		alias := findSuitableAlias(path, aliases)
		aliases.Add(alias)
		importWithAlias[path] = alias
	}

	imports := make([]importDefinition, 0, len(importWithAlias))
	for path, alias := range importWithAlias {
		imports = append(imports, importDefinition{Alias: alias, Path: path})
	}
	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	types := slices.Map(markers, func(m TypeMarkers) typeDefinition {
		importPath := m.ImportPath
		if importPath == registry.ImportPath {
			importPath = ""
		}
		return typeDefinition{
			FQN:     generateFQN(importPath, m.TypeName, importWithAlias),
			Inject:  m.Inject,
			Declare: m.Declare,
		}
	})

	var buf bytes.Buffer
	err := registryTemplate.Execute(&buf, registryFile{
		PackageName: registry.PackageName,
		StructName:  registry.StructName,
		Imports:     imports,
		Types:       types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render registry:\n\t%w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code:\n\t%w\n%s", err, buf.String())
	}
	return formatted, nil
}

// findSuitableAlias returns the last element of the import path, prefixed by the initials of
// the previous elements, then suffixed by a counter, until it does not collide with aliases.
func findSuitableAlias(importPath string, aliases *set.Set[string]) string {
	tokens := strings.Split(importPath, "/")
	alias := sanitizeIdentifier(tokens[len(tokens)-1])
	if aliases.DoesNotContain(alias) {
		return alias
	}

	for i := len(tokens) - 2; i >= 0; i-- {
		initial := sanitizeIdentifier(tokens[i])
		if initial == "" {
			continue
		}
		alias = initial[:1] + alias
		if aliases.DoesNotContain(alias) {
			return alias
		}
	}

	for i := 0; ; i++ {
		candidate := alias + strconv.Itoa(i)
		if aliases.DoesNotContain(candidate) {
			return candidate
		}
	}
}

func sanitizeIdentifier(token string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(token) {
		if unicode.IsLetter(r) || (unicode.IsDigit(r) && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func generateFQN(importPath string, typeName string, importWithAlias map[string]string) string {
	if importPath == "" {
		return typeName
	}

	pointer := strings.HasPrefix(typeName, "*")
	name := strings.TrimPrefix(typeName, "*")
	fqn := importWithAlias[importPath] + "." + name
	if pointer {
		return "*" + fqn
	}
	return fqn
}
