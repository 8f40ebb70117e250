package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/cpf"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/usuario"
	pgdb "github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/db/postgres"
	"go.uber.org/zap"
)

type usuarioRow struct {
	id              int64
	nome            string
	email           string
	cpf             string
	senha           string
	tipo            string
	status          string
	dataCriacao     string
	dataAtualizacao string
}

var usuarioColumns = map[string]column[usuarioRow, *usuario.Usuario]{
	"id": {
		dest:  func(r *usuarioRow) any { return &r.id },
		value: func(u *usuario.Usuario) any { return u.ID() },
	},
	"nome": {
		dest:  func(r *usuarioRow) any { return &r.nome },
		value: func(u *usuario.Usuario) any { return u.Nome() },
	},
	"email": {
		dest:  func(r *usuarioRow) any { return &r.email },
		value: func(u *usuario.Usuario) any { return u.Email() },
	},
	"cpf": {
		dest:  func(r *usuarioRow) any { return &r.cpf },
		value: func(u *usuario.Usuario) any { return u.Cpf().String() },
	},
	"senha": {
		dest:  func(r *usuarioRow) any { return &r.senha },
		value: func(u *usuario.Usuario) any { return u.Senha() },
	},
	"tipo": {
		dest:  func(r *usuarioRow) any { return &r.tipo },
		value: func(u *usuario.Usuario) any { return string(u.Tipo()) },
	},
	"status": {
		dest:  func(r *usuarioRow) any { return &r.status },
		value: func(u *usuario.Usuario) any { return string(u.Status()) },
	},
	"data_criacao": {
		dest:  func(r *usuarioRow) any { return &r.dataCriacao },
		value: func(u *usuario.Usuario) any { return u.DataCriacao() },
	},
	"data_atualizacao": {
		dest:  func(r *usuarioRow) any { return &r.dataAtualizacao },
		value: func(u *usuario.Usuario) any { return u.DataAtualizacao() },
	},
}

func (r *usuarioRow) toEntity() (*usuario.Usuario, error) {
	c, err := cpf.Parse(r.cpf)
	if err != nil {
		return nil, err
	}
	return usuario.New(usuario.Attributes{
		ID:              r.id,
		Nome:            r.nome,
		Email:           r.email,
		Cpf:             c,
		Senha:           r.senha,
		Tipo:            usuario.Tipo(r.tipo),
		Status:          usuario.Status(r.status),
		DataCriacao:     r.dataCriacao,
		DataAtualizacao: r.dataAtualizacao,
	})
}

// UsuarioRepository は PostgreSQL を利用した Usuario 永続化の実装です。
type UsuarioRepository struct {
	pool pgdb.Queryer
	m    *mapping[usuarioRow, *usuario.Usuario]
	log  *zap.Logger
}

// NewUsuarioRepository は記述子を検証し、SQL を組み立てたうえで UsuarioRepository を生成します。
func NewUsuarioRepository(pool pgdb.Queryer, table Table, log *zap.Logger) (*UsuarioRepository, error) {
	m, err := newMapping(table, TableUsuario, usuarioColumns)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &UsuarioRepository{pool: pool, m: m, log: log}, nil
}

// List は ID 昇順で全件を返します。
func (r *UsuarioRepository) List(ctx context.Context) ([]*usuario.Usuario, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, r.m.stmts.selectAll)
	if err != nil {
		return nil, r.translate("list", err)
	}
	defer rows.Close()

	usuarios := make([]*usuario.Usuario, 0)
	for rows.Next() {
		u, err := r.scan(rows)
		if err != nil {
			return nil, r.translate("list", err)
		}
		usuarios = append(usuarios, u)
	}
	if err := rows.Err(); err != nil {
		return nil, r.translate("list", err)
	}
	return usuarios, nil
}

// GetByID は ID で取得します。
func (r *UsuarioRepository) GetByID(ctx context.Context, id int64) (*usuario.Usuario, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	u, err := r.scan(exec.QueryRow(ctx, r.m.stmts.selectByID, id))
	if err != nil {
		return nil, r.translate("get by id", err)
	}
	return u, nil
}

// GetByCpf は CPF で取得します。
func (r *UsuarioRepository) GetByCpf(ctx context.Context, c cpf.Cpf) (*usuario.Usuario, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	u, err := r.scan(exec.QueryRow(ctx, r.m.stmts.selectByCpf, c.String()))
	if err != nil {
		return nil, r.translate("get by cpf", err)
	}
	return u, nil
}

// Create は Usuario を挿入します。ID はデータベースが採番します。
func (r *UsuarioRepository) Create(ctx context.Context, u *usuario.Usuario) (*usuario.Usuario, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	created, err := r.scan(exec.QueryRow(ctx, r.m.stmts.insert, r.m.writeArgs(u)...))
	if err != nil {
		return nil, r.translate("create", err)
	}
	return created, nil
}

// Update は ID が一致する行を書き換えます。
func (r *UsuarioRepository) Update(ctx context.Context, u *usuario.Usuario) (*usuario.Usuario, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	args := append(r.m.writeArgs(u), u.ID())
	updated, err := r.scan(exec.QueryRow(ctx, r.m.stmts.update, args...))
	if err != nil {
		return nil, r.translate("update", err)
	}
	return updated, nil
}

// Delete は CPF で削除します。
func (r *UsuarioRepository) Delete(ctx context.Context, c cpf.Cpf) error {
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

func (r *UsuarioRepository) scan(row pgx.Row) (*usuario.Usuario, error) {
	rec, err := r.m.scan(row)
	if err != nil {
		return nil, err
	}
	u, err := rec.toEntity()
	if err != nil {
		return nil, domainerr.Invalidf("%s row %d: %v", r.m.table.Name, rec.id, err)
	}
	return u, nil
}

func (r *UsuarioRepository) translate(op string, err error) error {
	return translatePgError(r.log, r.m.table.Name, op, err)
}
