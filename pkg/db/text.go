package db

import (
	"fmt"

	"gorm.io/gorm"
)

// TextExpr casts a column to a string type the active dialect can LIKE against.
func TextExpr(conn *gorm.DB, expr string) string {
	if conn != nil && conn.Dialector != nil && conn.Dialector.Name() == TypeMySQL {
		return fmt.Sprintf("CAST(%s AS CHAR)", expr)
	}
	return fmt.Sprintf("CAST(%s AS TEXT)", expr)
}
