package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// TableName は永続化対象のテーブルを識別します。
type TableName string

const (
	TableUsuario TableName = "usuario"
	TableCliente TableName = "cliente"
)

// Table はリポジトリが参照するテーブル名と列の並びです。
// 列の並びは SELECT / RETURNING の順序と一致します。
type Table struct {
	Name    TableName
	Columns []string
}

var (
	usuarioColumnNames = []string{"id", "nome", "email", "cpf", "senha", "tipo", "status", "data_criacao", "data_atualizacao"}
	clienteColumnNames = []string{"id", "nome", "email", "cpf", "data_criacao", "data_atualizacao"}
)

// DefaultTables は assets/migrations のスキーマに対応する記述子を返します。
func DefaultTables() map[TableName]Table {
	return map[TableName]Table{
		TableUsuario: UsuarioTable(),
		TableCliente: ClienteTable(),
	}
}

// UsuarioTable は usuario テーブルの既定記述子です。
func UsuarioTable() Table {
	return Table{Name: TableUsuario, Columns: append([]string(nil), usuarioColumnNames...)}
}

// ClienteTable は cliente テーブルの既定記述子です。
func ClienteTable() Table {
	return Table{Name: TableCliente, Columns: append([]string(nil), clienteColumnNames...)}
}

// statements は記述子から一度だけ組み立てる SQL の集合です。
type statements struct {
	selectAll   string
	selectByID  string
	selectByCpf string
	insert      string
	update      string
	deleteByCpf string
}

func buildStatements(t Table, writeColumns []string) statements {
	table := pgx.Identifier{string(t.Name)}.Sanitize()
	cols := quoteColumns(t.Columns)
	returning := strings.Join(cols, ", ")

	writes := quoteColumns(writeColumns)
	placeholders := make([]string, len(writes))
	assignments := make([]string, len(writes))
	for i, c := range writes {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		assignments[i] = c + " = " + placeholders[i]
	}

	selectAll := "SELECT " + returning + " FROM " + table

	return statements{
		selectAll:   selectAll + " ORDER BY " + quoteColumn("id"),
		selectByID:  selectAll + " WHERE " + quoteColumn("id") + " = $1 LIMIT 1",
		selectByCpf: selectAll + " WHERE " + quoteColumn("cpf") + " = $1 LIMIT 1",
		insert: "INSERT INTO " + table + " (" + strings.Join(writes, ", ") + ") VALUES (" +
			strings.Join(placeholders, ", ") + ") RETURNING " + returning,
		update: "UPDATE " + table + " SET " + strings.Join(assignments, ", ") +
			" WHERE " + quoteColumn("id") + " = $" + strconv.Itoa(len(writes)+1) + " RETURNING " + returning,
		deleteByCpf: "DELETE FROM " + table + " WHERE " + quoteColumn("cpf") + " = $1",
	}
}

func quoteColumn(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteColumns(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteColumn(n)
	}
	return out
}

// column は 1 列分の読み書き方法です。R はスキャン用の行、E はエンティティです。
type column[R, E any] struct {
	dest  func(*R) any
	value func(E) any
}

// mapping は記述子の列順に従ってスキャン先と書き込み値を並べます。
type mapping[R, E any] struct {
	table  Table
	reads  []column[R, E]
	writes []column[R, E]
	stmts  statements
}

func newMapping[R, E any](t Table, want TableName, known map[string]column[R, E]) (*mapping[R, E], error) {
	if t.Name == "" {
		t.Name = want
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("postgres: table %q has no columns", t.Name)
	}

	seen := make(map[string]bool, len(t.Columns))
	m := &mapping[R, E]{table: t}
	var writeNames []string
	for _, name := range t.Columns {
		col, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("postgres: table %q: unknown column %q", t.Name, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("postgres: table %q: duplicate column %q", t.Name, name)
		}
		seen[name] = true
		m.reads = append(m.reads, col)
		if name != "id" {
			m.writes = append(m.writes, col)
			writeNames = append(writeNames, name)
		}
	}
	for name := range known {
		if !seen[name] {
			return nil, fmt.Errorf("postgres: table %q: missing column %q", t.Name, name)
		}
	}

	m.stmts = buildStatements(t, writeNames)
	return m, nil
}

func (m *mapping[R, E]) scan(row pgx.Row) (*R, error) {
	var rec R
	dests := make([]any, len(m.reads))
	for i, c := range m.reads {
		dests[i] = c.dest(&rec)
	}
	if err := row.Scan(dests...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *mapping[R, E]) writeArgs(e E) []any {
	args := make([]any, len(m.writes))
	for i, c := range m.writes {
		args[i] = c.value(e)
	}
	return args
}
