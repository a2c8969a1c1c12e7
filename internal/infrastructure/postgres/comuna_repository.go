package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.ComunaRepository = (*ComunaRepo)(nil)

const comunaColumns = "id, code, name, region_code, region_name"

// ComunaRepo lectura del catálogo global de comunas.
type ComunaRepo struct {
	q Querier
}

// NewComunaRepository construye el adaptador.
func NewComunaRepository(q Querier) *ComunaRepo {
	return &ComunaRepo{q: q}
}

func scanComuna(row pgx.Row) (*entity.Comuna, error) {
	var c entity.Comuna
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.RegionCode, &c.RegionName); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID obtiene una comuna.
func (r *ComunaRepo) GetByID(ctx context.Context, id int) (*entity.Comuna, error) {
	c, err := scanComuna(r.q.QueryRow(ctx, `SELECT `+comunaColumns+` FROM comunas WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comuna: %w", err)
	}
	return c, nil
}

// List lista comunas, opcionalmente de una región.
func (r *ComunaRepo) List(ctx context.Context, f repository.ComunaFilter) (*repository.Page[*entity.Comuna], error) {
	where := sq.And{}
	if f.RegionCode != "" {
		where = append(where, sq.Eq{"region_code": f.RegionCode})
	}
	if s := searchClause(f.Search, "name", "code"); s != nil {
		where = append(where, s)
	}
	count := psql.Select("count(*)").From("comunas").Where(where)
	page := paginate(psql.Select(comunaColumns).From("comunas").Where(where).OrderBy("region_code", "name"), f.ListParams)

	out := &repository.Page[*entity.Comuna]{Items: []*entity.Comuna{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			c, err := scanComuna(rows)
			if err != nil {
				return fmt.Errorf("scan comuna: %w", err)
			}
			out.Items = append(out.Items, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list comunas: %w", err)
	}
	out.Total = total
	return out, nil
}
