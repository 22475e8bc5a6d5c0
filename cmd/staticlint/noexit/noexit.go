// Package noexit содержит анализатор, запрещающий завершать процесс из функции main пакета main.
// Такие вызовы пропускают отложенную остановку серверов и ожидание фоновых загрузок.
package noexit

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// NoExitAnalyzer проверяет отсутствие вызовов os.Exit и log.Fatal* в функции main пакета main.
var NoExitAnalyzer = &analysis.Analyzer{
	Name:     "noexit",
	Doc:      "запрещает вызовы os.Exit и log.Fatal* в функции main пакета main",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// forbidden перечисляет запрещённые функции по пути пакета
var forbidden = map[string]map[string]bool{
	"os":  {"Exit": true},
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true},
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(node ast.Node) {
		fn := node.(*ast.FuncDecl)
		if fn.Name.Name != "main" || fn.Recv != nil || fn.Body == nil {
			return
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			// Замыкания внутри main выполняются позже и не проверяются
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			ident, ok := sel.X.(*ast.Ident)
			if !ok {
				return true
			}
			pkg, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
			if !ok {
				return true
			}
			path := pkg.Imported().Path()
			if forbidden[path][sel.Sel.Name] {
				pass.Reportf(call.Pos(), "прямой вызов %s.%s в функции main запрещен", path, sel.Sel.Name)
			}
			return true
		})
	})

	return nil, nil
}
