package department

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/yaojerry/office-admin/internal"
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
)

func TestDepartment(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Department Module Suite")
}

type mockDepartmentRepository struct {
	depts  map[int64]*identity.Department
	nextID int64
}

func newMockDepartmentRepository() *mockDepartmentRepository {
	return &mockDepartmentRepository{
		depts:  make(map[int64]*identity.Department),
		nextID: 1,
	}
}

func (m *mockDepartmentRepository) List() ([]identity.Department, error) {
	out := make([]identity.Department, 0, len(m.depts))
	for _, d := range m.depts {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDepartmentRepository) GetByID(id int64) (*identity.Department, error) {
	if d, ok := m.depts[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockDepartmentRepository) GetByName(name string) (*identity.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockDepartmentRepository) Create(dept *identity.Department) error {
	dept.ID = m.nextID
	m.nextID++
	cp := *dept
	m.depts[dept.ID] = &cp
	return nil
}

func (m *mockDepartmentRepository) Update(dept *identity.Department) error {
	if _, ok := m.depts[dept.ID]; !ok {
		return errors.New("record not found")
	}
	cp := *dept
	m.depts[dept.ID] = &cp
	return nil
}

func (m *mockDepartmentRepository) Delete(id int64) error {
	delete(m.depts, id)
	for cid, d := range m.depts {
		if d.ParentID != nil && *d.ParentID == id {
			delete(m.depts, cid)
		}
	}
	return nil
}

func (m *mockDepartmentRepository) HasChildren(id int64) (bool, error) {
	for _, d := range m.depts {
		if d.ParentID != nil && *d.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func appErrorCode(err error) internal.ErrorCode {
	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

var _ = ginkgo.Describe("DepartmentService", func() {
	var (
		service *Service
		repo    *mockDepartmentRepository
	)

	ginkgo.BeforeEach(func() {
		repo = newMockDepartmentRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(repo, lg)
	})

	seedParentAndChild := func() (parent, child *View) {
		var err error
		parent, err = service.Create(CreateDepartmentDTO{Name: "Engineering"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		child, err = service.Create(CreateDepartmentDTO{Name: "Platform", ParentID: &parent.ID})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return parent, child
	}

	ginkgo.Describe("Create", func() {
		ginkgo.It("should create a top-level department", func() {
			view, err := service.Create(CreateDepartmentDTO{Name: "Engineering"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.ParentID).To(gomega.BeNil())
		})

		ginkgo.It("should create a child under a top-level department", func() {
			parent, child := seedParentAndChild()
			gomega.Expect(*child.ParentID).To(gomega.Equal(parent.ID))
		})

		ginkgo.It("should reject a duplicate name", func() {
			_, err := service.Create(CreateDepartmentDTO{Name: "Engineering"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Create(CreateDepartmentDTO{Name: "Engineering"})
			gomega.Expect(appErrorCode(err)).To(gomega.Equal(internal.ErrCodeDuplicateName))
		})

		ginkgo.It("should reject a department under a child (third level)", func() {
			_, child := seedParentAndChild()

			_, err := service.Create(CreateDepartmentDTO{Name: "Infra", ParentID: &child.ID})
			gomega.Expect(appErrorCode(err)).To(gomega.Equal(internal.ErrCodeDepartmentDepth))
		})

		ginkgo.It("should reject an unknown parent", func() {
			ghost := int64(999)
			_, err := service.Create(CreateDepartmentDTO{Name: "Infra", ParentID: &ghost})
			gomega.Expect(appErrorCode(err)).To(gomega.Equal(internal.ErrCodeDepartmentNotFound))
		})

		ginkgo.It("should reject an empty name", func() {
			_, err := service.Create(CreateDepartmentDTO{Name: ""})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should reject self-parenting", func() {
			parent, _ := seedParentAndChild()

			_, err := service.Update(parent.ID, UpdateDepartmentDTO{
				ParentID: NullableID{Set: true, Value: &parent.ID},
			})
			gomega.Expect(appErrorCode(err)).To(gomega.Equal(internal.ErrCodeSelfParent))
		})

		ginkgo.It("should reject nesting a department that has children", func() {
			parent, _ := seedParentAndChild()
			other, err := service.Create(CreateDepartmentDTO{Name: "Operations"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Update(parent.ID, UpdateDepartmentDTO{
				ParentID: NullableID{Set: true, Value: &other.ID},
			})
			gomega.Expect(appErrorCode(err)).To(gomega.Equal(internal.ErrCodeDepartmentDepth))
		})

		ginkgo.It("should detach a child when parentId is explicit null", func() {
			_, child := seedParentAndChild()

			view, err := service.Update(child.ID, UpdateDepartmentDTO{
				ParentID: NullableID{Set: true, Value: nil},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.ParentID).To(gomega.BeNil())
		})

		ginkgo.It("should leave the parent untouched when parentId is absent", func() {
			parent, child := seedParentAndChild()

			newName := "Platform Engineering"
			view, err := service.Update(child.ID, UpdateDepartmentDTO{Name: &newName})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Name).To(gomega.Equal(newName))
			gomega.Expect(*view.ParentID).To(gomega.Equal(parent.ID))
		})

		ginkgo.It("should reject renaming to an existing name", func() {
			_, child := seedParentAndChild()

			taken := "Engineering"
			_, err := service.Update(child.ID, UpdateDepartmentDTO{Name: &taken})
			gomega.Expect(appErrorCode(err)).To(gomega.Equal(internal.ErrCodeDuplicateName))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should remove the department and its children", func() {
			parent, child := seedParentAndChild()

			gomega.Expect(service.Delete(parent.ID)).To(gomega.Succeed())

			_, err := service.GetByID(child.ID)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should return not found for an unknown department", func() {
			err := service.Delete(999)
			gomega.Expect(appErrorCode(err)).To(gomega.Equal(internal.ErrCodeDepartmentNotFound))
		})
	})
})
