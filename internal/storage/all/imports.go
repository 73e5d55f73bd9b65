// Package all links every storage backend into the binary. Import it for its
// side effects.
package all

import (
	_ "github.com/Lucas-Ker/olist-data-analysis-project/internal/storage/mssql"
	_ "github.com/Lucas-Ker/olist-data-analysis-project/internal/storage/mysql"
	_ "github.com/Lucas-Ker/olist-data-analysis-project/internal/storage/postgres"
	_ "github.com/Lucas-Ker/olist-data-analysis-project/internal/storage/sqlite"
)
