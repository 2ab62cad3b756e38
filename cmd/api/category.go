package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	appcategory "github.com/xiebiao/bookshelf/internal/application/category"
	"github.com/xiebiao/bookshelf/internal/domain/category"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/gormdb"
)

// newCategoryCmd 分类管理(初始化数据用)
//
//	bookshelf category add "Science Fiction"
//	bookshelf category list
func newCategoryCmd(env envFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "管理图书分类",
	}

	// withService 打开数据库并构建分类服务，执行完关闭连接
	withService := func(fn func(category.Service) error) error {
		cfg, log, cleanupLog, err := env()
		if err != nil {
			return err
		}
		defer cleanupLog()

		db, cleanup, err := gormdb.NewDB(cfg, log)
		if err != nil {
			return err
		}
		defer cleanup()

		return fn(category.NewService(gormdb.NewCategoryRepository(db)))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "添加分类",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withService(func(svc category.Service) error {
				created, err := appcategory.NewCreateCategoryUseCase(svc).Execute(c.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "%d\t%s\n", created.ID, created.Name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "列出所有分类",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return withService(func(svc category.Service) error {
				list, err := appcategory.NewListCategoriesUseCase(svc).Execute(c.Context())
				if err != nil {
					return err
				}
				for _, item := range list {
					fmt.Fprintf(c.OutOrStdout(), "%d\t%s\n", item.ID, item.Name)
				}
				return nil
			})
		},
	})

	return cmd
}
