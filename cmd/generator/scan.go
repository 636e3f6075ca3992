package main

import (
	"go/ast"
	"go/token"
	"sort"
	"strings"

	"github.com/a-peyrard/ioc/set"
	"github.com/rs/zerolog"
)

const (
	injectAnnotationTag = "@inject"
	iocPackageName      = "ioc"
	emptyRegistryName   = "EmptyRegistry"
)

type (
	sourcePackage struct {
		ImportPath string
		Files      []sourceFile
	}

	sourceFile struct {
		Path string
		AST  *ast.File
	}

	MethodDefinition struct {
		ImportPath  string
		PackageName string
		Receiver    string
		Name        string
		Inject      bool
	}

	RegistryDefinition struct {
		ImportPath  string
		PackageName string
		StructName  string
	}

	// TypeMarkers is what gets registered for one struct type.
	TypeMarkers struct {
		ImportPath  string
		PackageName string
		TypeName    string
		Inject      []string
		Declare     []string
	}
)

// findRegistry looks for a struct embedding ioc.EmptyRegistry.
func findRegistry(importPath string, file *ast.File) *RegistryDefinition {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}
			for _, field := range structType.Fields.List {
				if len(field.Names) == 0 && isEmptyRegistry(field.Type) {
					return &RegistryDefinition{
						ImportPath:  importPath,
						PackageName: file.Name.Name,
						StructName:  typeSpec.Name.Name,
					}
				}
			}
		}
	}
	return nil
}

func isEmptyRegistry(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == iocPackageName && sel.Sel.Name == emptyRegistryName
}

// scanMethods lists the methods declared in file, flagging the ones annotated with @inject.
func scanMethods(logger *zerolog.Logger, importPath string, file *ast.File) []MethodDefinition {
	var methods []MethodDefinition
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}
		receiver, generic := receiverName(fn.Recv.List[0].Type)
		inject := hasInjectAnnotation(fn.Doc)
		if generic {
			if inject {
				logger.Warn().Msgf("%s.%s is declared on a generic type, skipping it", receiver, fn.Name.Name)
			}
			continue
		}
		methods = append(methods, MethodDefinition{
			ImportPath:  importPath,
			PackageName: file.Name.Name,
			Receiver:    receiver,
			Name:        fn.Name.Name,
			Inject:      inject,
		})
	}
	return methods
}

func receiverName(expr ast.Expr) (name string, generic bool) {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		name, _ = receiverName(t.X)
		return name, true
	case *ast.IndexListExpr:
		name, _ = receiverName(t.X)
		return name, true
	case *ast.Ident:
		return t.Name, false
	default:
		return "", false
	}
}

func hasInjectAnnotation(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, line := range strings.Split(doc.Text(), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), injectAnnotationTag) {
			return true
		}
	}
	return false
}

// collectMarkers groups methods per receiver type.
//
// A method without annotation is only kept when a method with the same name is annotated
// somewhere, otherwise its declaration cannot hide anything.
func collectMarkers(logger *zerolog.Logger, registry *RegistryDefinition, methods []MethodDefinition) []TypeMarkers {
	marked := set.New[string]()
	for _, m := range methods {
		if m.Inject {
			marked.Add(m.Name)
		}
	}

	byType := make(map[string]*TypeMarkers)
	for _, m := range methods {
		if !m.Inject && marked.DoesNotContain(m.Name) {
			continue
		}
		if !token.IsExported(m.Name) {
			if m.Inject {
				logger.Warn().Msgf("inject method %s.%s is not exported, skipping it", m.Receiver, m.Name)
			}
			continue
		}
		if !token.IsExported(m.Receiver) && m.ImportPath != registry.ImportPath {
			if m.Inject {
				logger.Warn().Msgf("type %s of %s is not exported, skipping %s", m.Receiver, m.ImportPath, m.Name)
			}
			continue
		}

		key := m.ImportPath + "." + m.Receiver
		markers, found := byType[key]
		if !found {
			markers = &TypeMarkers{ImportPath: m.ImportPath, PackageName: m.PackageName, TypeName: m.Receiver}
			byType[key] = markers
		}
		if m.Inject {
			markers.Inject = append(markers.Inject, m.Name)
		} else {
			markers.Declare = append(markers.Declare, m.Name)
		}
	}

	result := make([]TypeMarkers, 0, len(byType))
	for _, markers := range byType {
		result = append(result, *markers)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ImportPath != result[j].ImportPath {
			return result[i].ImportPath < result[j].ImportPath
		}
		return result[i].TypeName < result[j].TypeName
	})
	return result
}

// generate produces the registry source for the file targetPath.
func generate(logger *zerolog.Logger, pkgs []sourcePackage, targetPath string) ([]byte, error) {
	var (
		registry *RegistryDefinition
		methods  []MethodDefinition
	)
	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			if file.Path == targetPath && registry == nil {
				registry = findRegistry(pkg.ImportPath, file.AST)
			}
			methods = append(methods, scanMethods(logger, pkg.ImportPath, file.AST)...)
		}
	}
	if registry == nil {
		return nil, errNoRegistry
	}
	logger.Info().Msgf("👨‍🔧 Registry found: %+v", *registry)

	markers := collectMarkers(logger, registry, methods)
	logger.Info().Msgf("🎯 %d types with inject methods found in the module", len(markers))

	return render(registry, markers)
}
