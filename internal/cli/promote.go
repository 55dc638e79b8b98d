package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/database/persistence"
	"snipx-service/internal/resource"
)

var demote bool

var promoteAdminCmd = &cobra.Command{
	Use:   "promote-admin <email>",
	Short: "Grant (or with --revoke, remove) the admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		openResources()
		ctx := cmd.Context()
		users := persistence.NewUserRepository(resource.DefaultDatabaseResource().MainDB())

		email := entity.NormalizeEmail(args[0])
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("find user %s: %w", email, err)
		}
		role := vo.UserRoleAdmin
		if demote {
			role = vo.UserRoleUser
		}
		if user.Role() == role {
			printf("%s already has role %s\n", email, role)
			return nil
		}
		user.SetRole(role)
		if err := users.Update(ctx, user); err != nil {
			return fmt.Errorf("update user %s: %w", email, err)
		}
		printf("%s is now %s\n", email, role)
		return nil
	},
}

func init() {
	promoteAdminCmd.Flags().BoolVar(&demote, "revoke", false, "demote back to a regular user")
}
