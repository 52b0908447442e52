package memory

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("memcore.memory")
