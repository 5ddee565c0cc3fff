package execmem

import (
	"errors"
	"runtime"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xyproto/bfjit/internal/diag"
)

var _ = Describe("LoadWith", func() {
	var (
		mockCtrl  *gomock.Controller
		allocator *MockPageAllocator
		code      []byte
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		allocator = NewMockPageAllocator(mockCtrl)
		code = []byte{0x53, 0x5B, 0x31, 0xC0, 0xC3}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write the code before making it executable", func() {
		mem := make([]byte, 4096)
		allocator.EXPECT().PageSize().Return(4096)
		gomock.InOrder(
			allocator.EXPECT().Alloc(4096).Return(mem, nil),
			allocator.EXPECT().Protect(gomock.Any()).DoAndReturn(func(p []byte) error {
				Expect(p[:len(code)]).To(Equal(code))
				Expect(p).To(HaveLen(4096))
				return nil
			}),
		)

		r, err := LoadWith(allocator, code)

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Size()).To(Equal(4096))
		Expect(r.CodeSize()).To(Equal(len(code)))
		Expect(r.Code()).To(Equal(code))
		Expect(r.Entry()).NotTo(BeZero())
	})

	It("should round the size up to whole pages", func() {
		allocator.EXPECT().PageSize().Return(16)
		allocator.EXPECT().Alloc(32).Return(make([]byte, 32), nil)
		allocator.EXPECT().Protect(gomock.Any()).Return(nil)

		r, err := LoadWith(allocator, make([]byte, 17))

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Size()).To(Equal(32))
	})

	It("should not round an exact multiple", func() {
		allocator.EXPECT().PageSize().Return(16)
		allocator.EXPECT().Alloc(16).Return(make([]byte, 16), nil)
		allocator.EXPECT().Protect(gomock.Any()).Return(nil)

		r, err := LoadWith(allocator, make([]byte, 16))

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Size()).To(Equal(16))
	})

	It("should reject empty code without touching memory", func() {
		_, err := LoadWith(allocator, nil)

		Expect(errors.Is(err, ErrEmptyCode)).To(BeTrue())
	})

	It("should report allocation failure as a fatal resource error", func() {
		allocator.EXPECT().PageSize().Return(4096)
		allocator.EXPECT().Alloc(4096).Return(nil, errors.New("out of memory"))

		r, err := LoadWith(allocator, code)

		Expect(r).To(BeNil())
		Expect(diag.IsFatal(err)).To(BeTrue())
		cat, _ := diag.CategoryOf(err)
		Expect(cat).To(Equal(diag.CategoryResource))
		Expect(err.Error()).To(ContainSubstring("out of memory"))
	})

	It("should unmap when protection fails", func() {
		mem := make([]byte, 4096)
		allocator.EXPECT().PageSize().Return(4096)
		allocator.EXPECT().Alloc(4096).Return(mem, nil)
		allocator.EXPECT().Protect(gomock.Any()).Return(errors.New("permission denied"))
		allocator.EXPECT().Free(gomock.Any()).Return(nil)

		r, err := LoadWith(allocator, code)

		Expect(r).To(BeNil())
		Expect(diag.IsFatal(err)).To(BeTrue())
	})

	It("should reject a short allocation", func() {
		allocator.EXPECT().PageSize().Return(4096)
		allocator.EXPECT().Alloc(4096).Return(make([]byte, 100), nil)
		allocator.EXPECT().Free(gomock.Any()).Return(nil)

		_, err := LoadWith(allocator, code)

		Expect(diag.IsFatal(err)).To(BeTrue())
	})

	It("should free exactly once", func() {
		allocator.EXPECT().PageSize().Return(4096)
		allocator.EXPECT().Alloc(4096).Return(make([]byte, 4096), nil)
		allocator.EXPECT().Protect(gomock.Any()).Return(nil)
		allocator.EXPECT().Free(gomock.Any()).Return(nil).Times(1)

		r, err := LoadWith(allocator, code)
		Expect(err).NotTo(HaveOccurred())

		Expect(r.Free()).To(Succeed())
		Expect(r.Free()).To(Succeed())
		Expect(r.Entry()).To(BeZero())
		Expect(r.Code()).To(BeNil())
	})

	It("should wrap a failed release", func() {
		allocator.EXPECT().PageSize().Return(4096)
		allocator.EXPECT().Alloc(4096).Return(make([]byte, 4096), nil)
		allocator.EXPECT().Protect(gomock.Any()).Return(nil)
		allocator.EXPECT().Free(gomock.Any()).Return(errors.New("EINVAL"))

		r, _ := LoadWith(allocator, code)

		Expect(r.Free()).To(MatchError(ContainSubstring("EINVAL")))
	})
})

var _ = Describe("Load", func() {
	It("should map real pages", func() {
		if runtime.GOOS == "js" || runtime.GOOS == "wasip1" {
			Skip("no executable memory on this platform")
		}
		code := []byte{0x31, 0xC0, 0xC3}

		r, err := Load(code)
		Expect(err).NotTo(HaveOccurred())
		defer r.Free()

		pageSize := DefaultAllocator().PageSize()
		Expect(r.Size() % pageSize).To(BeZero())
		Expect(r.Size()).To(BeNumerically(">=", len(code)))
		Expect(r.Code()).To(Equal(code))
		Expect(r.Entry() % uintptr(pageSize)).To(BeZero())
	})
})
