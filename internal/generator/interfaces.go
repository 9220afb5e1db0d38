package generator

import (
	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
)

// CodeGenerator defines the interface for turning declarations into spy companions
type CodeGenerator interface {
	Generate(decl *models.Declaration) (*models.SynthesizedContainer, error)
	Assemble(decl *models.Declaration) (*Result, error)
	GenerateFile(file *models.SourceFile) ([]GeneratedFile, *spyerrors.Diagnostics, error)
}

var _ CodeGenerator = (*Generator)(nil)
