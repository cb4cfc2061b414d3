package ir

import "github.com/loomwork/loomlint/internal/pysrc"

// plainImport records a plain import statement, one record per imported
// module so each carries its own line.
func (ex *extractor) plainImport(st *pysrc.ImportStmt) {
	for _, item := range st.Items {
		ex.unit.Imports = append(ex.unit.Imports, Import{
			Module: item.Path,
			Names: []ImportedName{{
				Name:  item.Path,
				Alias: item.Alias,
				Line:  item.Pos.Line,
			}},
			Line: item.Pos.Line,
		})
	}
}

// fromImport records a from-import statement as a single record carrying
// all imported names.
func (ex *extractor) fromImport(st *pysrc.FromImportStmt) {
	imp := Import{
		Module: st.Module,
		Dots:   st.Dots,
		IsFrom: true,
		Star:   st.Star,
		Line:   st.Pos.Line,
	}
	for _, item := range st.Items {
		imp.Names = append(imp.Names, ImportedName{
			Name:  item.Path,
			Alias: item.Alias,
			Line:  item.Pos.Line,
		})
	}
	ex.unit.Imports = append(ex.unit.Imports, imp)
}
