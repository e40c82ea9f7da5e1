package i18n

var catalogs = map[Lang]map[string]string{
	Chinese: {
		"app.subtitle":     "最智能的相册检索系统",
		"app.privacy":      "100% 本地运行 · 数据隐私安全",
		"app.version":      "轻量版",
		"lang.switch_to":   "EN",
		"lang.changed":     "已切换到中文",
		"loading":          "正在加载...",
		"confirm.yes":      "确定",
		"confirm.no":       "取消",
		"error.network":    "网络请求失败",
		"error.status":     "服务器返回 %d",
		"error.response":   "服务器响应无法解析",
		"error.request":    "请求失败",
		"help.title":       "快捷键",

		"help.section.navigation": "导航",
		"help.section.dialogs":    "对话框",
		"help.section.general":    "通用",
		"help.quit":               "退出",
		"help.help":               "显示/隐藏帮助",
		"help.theme":              "切换主题",
		"help.lang":               "切换语言",
		"help.index":              "开始索引",
		"help.refresh":            "刷新统计",
		"help.next_tab":           "下一页",
		"help.prev_tab":           "上一页",
		"help.back":               "返回",
		"help.up":                 "上移",
		"help.down":               "下移",
		"help.top":                "跳到顶部",
		"help.bottom":             "跳到底部",
		"help.open":               "打开",
		"help.focus_search":       "输入搜索",
		"help.top_k_up":           "增加返回数量",
		"help.top_k_down":         "减少返回数量",
		"help.threshold_up":       "提高相似度阈值",
		"help.threshold_down":     "降低相似度阈值",
		"help.add_folder":         "添加文件夹",
		"help.remove_folder":      "移除文件夹",
		"help.scan_folder":        "扫描文件夹",
		"help.index_folder":       "索引文件夹",
		"help.force_index":        "强制重新索引",
		"help.reload":             "重新加载",
		"help.log_level":          "切换日志级别",
		"help.follow":             "跟随/暂停",
		"help.browse_into":        "进入目录",
		"help.browse_up":          "上一级",
		"help.select":             "选择",
		"help.filter":             "过滤",
		"help.rename":             "重命名",
		"help.unhover":            "取消高亮",

		"tab.search":       "搜索",
		"tab.folders":      "文件夹",
		"tab.maintenance":  "维护",
		"tab.logs":         "日志",
		"logs.empty":       "暂无日志",
		"logs.level":       "级别: %s",
		"logs.level.all":   "全部",
		"logs.read_failed": "读取日志失败",

		"stats.indexed_images":     "已索引图片",
		"status.ready":             "就绪",
		"status.indexing":          "索引中...",
		"status.connection_failed": "连接失败",
		"status.offline":           "离线",

		"index.start":        "开始索引",
		"index.starting":     "正在启动索引...",
		"index.progress":     "索引中 %s",
		"index.started":      "索引任务已启动，将在后台执行",
		"index.start_failed": "索引启动失败",
		"index.completed":    "索引完成",
		"index.poll_failed":  "获取索引状态失败",

		"search.placeholder":     "输入中文描述搜索，例如：蓝色的裙子、夕阳海滩、那只橘猫...",
		"search.button":          "搜索",
		"search.top_k":           "返回数量",
		"search.threshold":       "相似度阈值",
		"search.empty_query":     "请输入搜索内容",
		"search.failed":          "搜索失败",
		"search.summary":         "找到 %d 个相关结果，查询: \"%s\"",
		"search.no_results":      "未找到相关图片",
		"search.no_results_hint": "试试其他搜索词或降低相似度阈值",
		"search.score":           "相似度: %s",
		"search.loading":         "搜索中...",
		"search.objects":         "%d 个目标",

		"viewer.title":             "图片详情",
		"viewer.loading":           "加载中...",
		"viewer.load_failed":       "图片加载失败",
		"viewer.objects":           "检测目标",
		"viewer.no_objects":        "未检测到目标",
		"viewer.objects_malformed": "目标数据无法解析",
		"viewer.ocr":               "识别文字",
		"viewer.url":               "地址",

		"folders.title":          "文件夹管理",
		"folders.monitored":      "监控目录",
		"folders.count":          "%d 个文件夹",
		"folders.images":         "%d 张",
		"folders.indexed":        "已索引",
		"folders.not_indexed":    "未索引",
		"folders.never_scanned":  "从未扫描",
		"folders.last_scan":      "上次扫描",
		"folders.add":            "添加文件夹",
		"folders.empty":          "暂无监控目录",
		"folders.load_failed":    "加载失败",
		"folders.added":          "已添加文件夹: %s",
		"folders.add_failed":     "添加失败",
		"folders.remove_confirm": "确定要移除此文件夹吗？（不会删除实际文件）",
		"folders.removed":        "文件夹已移除",
		"folders.remove_failed":  "移除失败",
		"folders.scanning":       "正在扫描文件夹...",
		"folders.scanned":        "扫描完成: 找到 %d 张有效图片",
		"folders.scan_failed":    "扫描失败",
		"folders.index_starting": "正在启动索引任务...",
		"folders.index_started":  "%s",
		"folders.index_done":     "索引任务已完成",
		"folders.index_failed":   "索引失败",

		"folder.status.pending":  "待索引",
		"folder.status.indexing": "索引中",
		"folder.status.active":   "已激活",
		"folder.status.paused":   "已暂停",
		"folder.status.error":    "错误",
		"folder.status.unknown":  "未知",

		"browser.title":          "添加新文件夹",
		"browser.this_pc":        "此电脑",
		"browser.empty":          "此文件夹为空或无权访问",
		"browser.image_count":    "%d 张图片",
		"browser.no_images":      "无图片",
		"browser.select_first":   "请选择一个文件夹",
		"browser.load_failed":    "浏览文件夹失败",
		"browser.selected":       "已选择: %s",
		"browser.confirm":        "确认添加",
		"browser.not_accessible": "无权访问",
		"browser.folder_name":    "名称",

		"maint.title":                  "数据库维护",
		"maint.health_check":           "健康检查",
		"maint.checking":               "正在检查...",
		"maint.health_done":            "健康检查完成",
		"maint.health_failed":          "检查失败",
		"maint.total_records":          "总记录数",
		"maint.valid_files":            "有效文件",
		"maint.deleted_files":          "已删除文件",
		"maint.deletion_rate":          "删除率",
		"maint.recommendations":        "建议",
		"maint.preview":                "预览清理",
		"maint.analyzing":              "正在分析...",
		"maint.preview_found":          "发现 %d 个可清理记录",
		"maint.preview_more":           "...还有 %d 个文件",
		"maint.preview_failed":         "预览失败",
		"maint.preview_clean":          "数据库健康，没有需要清理的记录",
		"maint.cleanup":                "执行清理",
		"maint.cleanup_confirm":        "确定要清理所有已删除文件的记录吗？此操作不可撤销。",
		"maint.cleaning":               "正在清理...",
		"maint.cleaned":                "已清理 %d 条记录",
		"maint.cleanup_failed":         "清理失败",
		"maint.optimize":               "优化数据库",
		"maint.optimize_confirm":       "确定要开始数据库优化吗？这将在后台执行。",
		"maint.optimize_started":       "%s",
		"maint.optimize_failed":        "优化失败",
		"maint.stats":                  "维护统计",
		"maint.stats_failed":           "获取统计失败",
		"maint.health.healthy":         "健康",
		"maint.health.needs_attention": "需要清理",
		"maint.not_confirmed":          "操作需要确认",
	},
	English: {
		"app.subtitle":     "Smart Photo Search System",
		"app.privacy":      "100% Local · Privacy Secured",
		"app.version":      "Lite Edition",
		"lang.switch_to":   "中",
		"lang.changed":     "Switched to English",
		"loading":          "Loading...",
		"confirm.yes":      "Yes",
		"confirm.no":       "Cancel",
		"error.network":    "network request failed",
		"error.status":     "server returned %d",
		"error.response":   "unreadable response from server",
		"error.request":    "request failed",
		"help.title":       "Keyboard Shortcuts",

		"help.section.navigation": "Navigation",
		"help.section.dialogs":    "Dialogs",
		"help.section.general":    "General",
		"help.quit":               "quit",
		"help.help":               "toggle help",
		"help.theme":              "cycle theme",
		"help.lang":               "switch language",
		"help.index":              "start indexing",
		"help.refresh":            "refresh stats",
		"help.next_tab":           "next tab",
		"help.prev_tab":           "previous tab",
		"help.back":               "back",
		"help.up":                 "up",
		"help.down":               "down",
		"help.top":                "go to top",
		"help.bottom":             "go to bottom",
		"help.open":               "open",
		"help.focus_search":       "type a query",
		"help.top_k_up":           "more results",
		"help.top_k_down":         "fewer results",
		"help.threshold_up":       "raise threshold",
		"help.threshold_down":     "lower threshold",
		"help.add_folder":         "add folder",
		"help.remove_folder":      "remove folder",
		"help.scan_folder":        "scan folder",
		"help.index_folder":       "index folder",
		"help.force_index":        "force reindex",
		"help.reload":             "reload",
		"help.log_level":          "cycle log level",
		"help.follow":             "follow/pause",
		"help.browse_into":        "enter directory",
		"help.browse_up":          "parent directory",
		"help.select":             "select",
		"help.filter":             "filter",
		"help.rename":             "rename",
		"help.unhover":            "clear highlight",

		"tab.search":       "Search",
		"tab.folders":      "Folders",
		"tab.maintenance":  "Maintenance",
		"tab.logs":         "Logs",
		"logs.empty":       "No log entries",
		"logs.level":       "Level: %s",
		"logs.level.all":   "all",
		"logs.read_failed": "Failed to read log",

		"stats.indexed_images":     "Indexed Photos",
		"status.ready":             "Ready",
		"status.indexing":          "Indexing...",
		"status.connection_failed": "Connection failed",
		"status.offline":           "Offline",

		"index.start":        "Start Indexing",
		"index.starting":     "Starting index...",
		"index.progress":     "Indexing %s",
		"index.started":      "Indexing started in the background",
		"index.start_failed": "Failed to start indexing",
		"index.completed":    "Indexing finished",
		"index.poll_failed":  "Lost track of indexing status",

		"search.placeholder":     "Search by description, e.g.: blue dress, sunset beach, orange cat...",
		"search.button":          "Search",
		"search.top_k":           "Results",
		"search.threshold":       "Similarity",
		"search.empty_query":     "Please enter a search query",
		"search.failed":          "Search failed",
		"search.summary":         "Found %d results for \"%s\"",
		"search.no_results":      "No matching photos",
		"search.no_results_hint": "Try other words or lower the similarity threshold",
		"search.score":           "Similarity: %s",
		"search.loading":         "Searching...",
		"search.objects":         "%d objects",

		"viewer.title":             "Photo Details",
		"viewer.loading":           "Loading...",
		"viewer.load_failed":       "Image failed to load",
		"viewer.objects":           "Detected objects",
		"viewer.no_objects":        "No objects detected",
		"viewer.objects_malformed": "Detection data unreadable",
		"viewer.ocr":               "Recognised text",
		"viewer.url":               "URL",

		"folders.title":          "Folder Management",
		"folders.monitored":      "Monitored Folders",
		"folders.count":          "%d folders",
		"folders.images":         "%d images",
		"folders.indexed":        "Indexed",
		"folders.not_indexed":    "Not Indexed",
		"folders.never_scanned":  "Never scanned",
		"folders.last_scan":      "Last scan",
		"folders.add":            "Add Folder",
		"folders.empty":          "No monitored folders",
		"folders.load_failed":    "Failed to load",
		"folders.added":          "Folder added: %s",
		"folders.add_failed":     "Failed to add",
		"folders.remove_confirm": "Remove this folder? (Files on disk are kept)",
		"folders.removed":        "Folder removed",
		"folders.remove_failed":  "Failed to remove",
		"folders.scanning":       "Scanning folder...",
		"folders.scanned":        "Scan finished: %d valid images",
		"folders.scan_failed":    "Scan failed",
		"folders.index_starting": "Starting index job...",
		"folders.index_started":  "%s",
		"folders.index_done":     "Indexing finished",
		"folders.index_failed":   "Indexing failed",

		"folder.status.pending":  "Pending",
		"folder.status.indexing": "Indexing",
		"folder.status.active":   "Active",
		"folder.status.paused":   "Paused",
		"folder.status.error":    "Error",
		"folder.status.unknown":  "Unknown",

		"browser.title":          "Add New Folder",
		"browser.this_pc":        "This computer",
		"browser.empty":          "Folder is empty or not accessible",
		"browser.image_count":    "%d images",
		"browser.no_images":      "No images",
		"browser.select_first":   "Please select a folder",
		"browser.load_failed":    "Failed to browse folder",
		"browser.selected":       "Selected: %s",
		"browser.confirm":        "Confirm",
		"browser.not_accessible": "Not accessible",
		"browser.folder_name":    "Name",

		"maint.title":                  "Database Maintenance",
		"maint.health_check":           "Health check",
		"maint.checking":               "Checking...",
		"maint.health_done":            "Health check finished",
		"maint.health_failed":          "Check failed",
		"maint.total_records":          "Total records",
		"maint.valid_files":            "Valid files",
		"maint.deleted_files":          "Deleted files",
		"maint.deletion_rate":          "Deletion rate",
		"maint.recommendations":        "Recommendations",
		"maint.preview":                "Preview cleanup",
		"maint.analyzing":              "Analyzing...",
		"maint.preview_found":          "Found %d records to clean up",
		"maint.preview_more":           "...and %d more",
		"maint.preview_failed":         "Preview failed",
		"maint.preview_clean":          "Database is healthy, nothing to clean up",
		"maint.cleanup":                "Clean up",
		"maint.cleanup_confirm":        "Remove the records of all deleted files? This cannot be undone.",
		"maint.cleaning":               "Cleaning...",
		"maint.cleaned":                "Cleaned %d records",
		"maint.cleanup_failed":         "Cleanup failed",
		"maint.optimize":               "Optimize database",
		"maint.optimize_confirm":       "Start database optimization? It runs in the background.",
		"maint.optimize_started":       "%s",
		"maint.optimize_failed":        "Optimization failed",
		"maint.stats":                  "Maintenance stats",
		"maint.stats_failed":           "Failed to load statistics",
		"maint.health.healthy":         "Healthy",
		"maint.health.needs_attention": "Needs attention",
		"maint.not_confirmed":          "Confirmation required",
	},
}
