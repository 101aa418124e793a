package repo

import (
	"github.com/studyhub/studyhub/internal/pg"
	catalogrepo "github.com/studyhub/studyhub/internal/repo/catalog-repo"
	enrollmentrepo "github.com/studyhub/studyhub/internal/repo/enrollment-repo"
	orderrepo "github.com/studyhub/studyhub/internal/repo/order-repo"
	reviewrepo "github.com/studyhub/studyhub/internal/repo/review-repo"
	userrepo "github.com/studyhub/studyhub/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo       *userrepo.Repository
	CatalogRepo    *catalogrepo.Repository
	ReviewRepo     *reviewrepo.Repository
	EnrollmentRepo *enrollmentrepo.Repository
	OrderRepo      *orderrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:       userrepo.New(conn),
		CatalogRepo:    catalogrepo.New(conn),
		ReviewRepo:     reviewrepo.New(conn, txManager),
		EnrollmentRepo: enrollmentrepo.New(conn, txManager),
		OrderRepo:      orderrepo.New(conn),
	}
}
