package modules

import (
	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

const schedXactionsTable = "schedxactions"

var schedXactionDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypeSchedXaction,
	Table:    schedXactionsTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.SchedXaction](),
		{Name: "name", Type: core.TypeString, Size: 2048,
			Access: core.Bind((*ledger.SchedXaction).Name, (*ledger.SchedXaction).SetName)},
		{Name: "enabled", Type: core.TypeBoolean, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.SchedXaction).Enabled, (*ledger.SchedXaction).SetEnabled)},
		{Name: "start_date", Type: core.TypeDate,
			Access: core.Bind((*ledger.SchedXaction).StartDate, (*ledger.SchedXaction).SetStartDate)},
		{Name: "end_date", Type: core.TypeDate,
			Access: core.Bind((*ledger.SchedXaction).EndDate, (*ledger.SchedXaction).SetEndDate)},
		{Name: "last_occur", Type: core.TypeDate,
			Access: core.Bind((*ledger.SchedXaction).LastOccur, (*ledger.SchedXaction).SetLastOccur)},
		{Name: "num_occur", Type: core.TypeInt, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.SchedXaction).NumOccur, (*ledger.SchedXaction).SetNumOccur)},
		{Name: "rem_occur", Type: core.TypeInt, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.SchedXaction).RemOccur, (*ledger.SchedXaction).SetRemOccur)},
		{Name: "auto_create", Type: core.TypeBoolean, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.SchedXaction).AutoCreate, (*ledger.SchedXaction).SetAutoCreate)},
		{Name: "auto_notify", Type: core.TypeBoolean, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.SchedXaction).AutoNotify, (*ledger.SchedXaction).SetAutoNotify)},
		{Name: "adv_creation", Type: core.TypeInt, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.SchedXaction).AdvanceCreation, (*ledger.SchedXaction).SetAdvanceCreation)},
		{Name: "adv_notify", Type: core.TypeInt, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.SchedXaction).AdvanceNotify, (*ledger.SchedXaction).SetAdvanceNotify)},
		{Name: "instance_count", Type: core.TypeInt, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.SchedXaction).InstanceCount, (*ledger.SchedXaction).SetInstanceCount)},
		{Name: "template_act_guid", Type: core.RefType(ledger.TypeAccount), Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.SchedXaction).TemplateAccount, (*ledger.SchedXaction).SetTemplateAccount)},
	},
}

func newSchedXactionHandler() *backend.StandardHandler {
	return &backend.StandardHandler{
		Type:         ledger.TypeSchedXaction,
		Descriptor:   schedXactionDescriptor,
		TableVersion: 1,
		New:          func(*backend.Backend) core.Entity { return &ledger.SchedXaction{} },
	}
}
