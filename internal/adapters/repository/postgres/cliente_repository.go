package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cliente"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	pgdb "github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/db/postgres"
	"go.uber.org/zap"
)

type clienteRow struct {
	id              int64
	nome            string
	email           string
	cpf             string
	dataCriacao     string
	dataAtualizacao string
}

var clienteColumns = map[string]column[clienteRow, *cliente.Cliente]{
	"id": {
		dest:  func(r *clienteRow) any { return &r.id },
		value: func(c *cliente.Cliente) any { return c.ID() },
	},
	"nome": {
		dest:  func(r *clienteRow) any { return &r.nome },
		value: func(c *cliente.Cliente) any { return c.Nome() },
	},
	"email": {
		dest:  func(r *clienteRow) any { return &r.email },
		value: func(c *cliente.Cliente) any { return c.Email() },
	},
	"cpf": {
		dest:  func(r *clienteRow) any { return &r.cpf },
		value: func(c *cliente.Cliente) any { return c.Cpf().String() },
	},
	"data_criacao": {
		dest:  func(r *clienteRow) any { return &r.dataCriacao },
		value: func(c *cliente.Cliente) any { return c.DataCriacao() },
	},
	"data_atualizacao": {
		dest:  func(r *clienteRow) any { return &r.dataAtualizacao },
		value: func(c *cliente.Cliente) any { return c.DataAtualizacao() },
	},
}

func (r *clienteRow) toEntity() (*cliente.Cliente, error) {
	c, err := cpf.Parse(r.cpf)
	if err != nil {
		return nil, err
	}
	return cliente.New(cliente.Attributes{
		ID:              r.id,
		Nome:            r.nome,
		Email:           r.email,
		Cpf:             c,
		DataCriacao:     r.dataCriacao,
		DataAtualizacao: r.dataAtualizacao,
	})
}

// ClienteRepository は PostgreSQL を利用した Cliente 永続化の実装です。
type ClienteRepository struct {
	pool pgdb.Queryer
	m    *mapping[clienteRow, *cliente.Cliente]
	log  *zap.Logger
}

// NewClienteRepository は ClienteRepository を生成します。
func NewClienteRepository(pool pgdb.Queryer, table Table, log *zap.Logger) (*ClienteRepository, error) {
	m, err := newMapping(table, TableCliente, clienteColumns)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ClienteRepository{pool: pool, m: m, log: log}, nil
}

func (r *ClienteRepository) List(ctx context.Context) ([]*cliente.Cliente, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, r.m.stmts.selectAll)
	if err != nil {
		return nil, r.translate("list", err)
	}
	defer rows.Close()

	clientes := make([]*cliente.Cliente, 0)
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, r.translate("list", err)
		}
		clientes = append(clientes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.translate("list", err)
	}
	return clientes, nil
}

func (r *ClienteRepository) GetByID(ctx context.Context, id int64) (*cliente.Cliente, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	c, err := r.scan(exec.QueryRow(ctx, r.m.stmts.selectByID, id))
	if err != nil {
		return nil, r.translate("get by id", err)
	}
	return c, nil
}

func (r *ClienteRepository) GetByCpf(ctx context.Context, c cpf.Cpf) (*cliente.Cliente, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := r.scan(exec.QueryRow(ctx, r.m.stmts.selectByCpf, c.String()))
	if err != nil {
		return nil, r.translate("get by cpf", err)
	}
	return found, nil
}

func (r *ClienteRepository) Create(ctx context.Context, c *cliente.Cliente) (*cliente.Cliente, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	created, err := r.scan(exec.QueryRow(ctx, r.m.stmts.insert, r.m.writeArgs(c)...))
	if err != nil {
		return nil, r.translate("create", err)
	}
	return created, nil
}

func (r *ClienteRepository) Delete(ctx context.Context, c cpf.Cpf) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, r.m.stmts.deleteByCpf, c.String())
	if err != nil {
		return r.translate("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerr.ErrNotFound
	}
	return nil
}

func (r *ClienteRepository) scan(row pgx.Row) (*cliente.Cliente, error) {
	rec, err := r.m.scan(row)
	if err != nil {
		return nil, err
	}
	c, err := rec.toEntity()
	if err != nil {
		return nil, domainerr.Invalidf("%s row %d: %v", r.m.table.Name, rec.id, err)
	}
	return c, nil
}

func (r *ClienteRepository) translate(op string, err error) error {
	return translatePgError(r.log, r.m.table.Name, op, err)
}
